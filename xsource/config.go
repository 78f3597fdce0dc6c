package xsource

const (
	// SyntheticScheme synthetic://<n>?w=<width>&h=<height>
	SyntheticScheme = "synthetic"

	defaultSyntheticWidth  = 64
	defaultSyntheticHeight = 48

	defaultFFmpeg  = "ffmpeg"
	defaultFFprobe = "ffprobe"

	// 解码后的图像在 xcache 中的 key 命名空间
	imageCacheNamespace  = "xsource:image"
	remoteCacheNamespace = "xsource:remote"
)

var imageExts = []string{".png", ".jpg", ".jpeg", ".bmp"}

type Option func(*options)

type options struct {
	// cacheName 为空时使用默认缓存
	cacheName string
	// disableCache 禁用解码缓存
	disableCache bool
	// ffmpeg / ffprobe 可执行文件，名称或路径
	ffmpeg  string
	ffprobe string
}

// WithCacheName 指定解码缓存使用的 xcache 实例名称
func WithCacheName(name string) Option {
	return func(o *options) {
		o.cacheName = name
	}
}

// WithoutCache 每次都重新解码
func WithoutCache() Option {
	return func(o *options) {
		o.disableCache = true
	}
}

// WithFFmpeg 指定视频解码使用的 ffmpeg / ffprobe，空值保持默认（从 PATH 查找）
func WithFFmpeg(ffmpeg, ffprobe string) Option {
	return func(o *options) {
		if ffmpeg != "" {
			o.ffmpeg = ffmpeg
		}
		if ffprobe != "" {
			o.ffprobe = ffprobe
		}
	}
}
