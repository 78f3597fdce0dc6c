package xpipeline

import (
	"context"

	"github.com/xiaoshicae/xplayer/xutil"
)

// BoundedChannel 单生产者/单消费者的定长 FIFO
// 满时 Put 阻塞，空时 Get 阻塞，阻塞即背压，不视为错误
type BoundedChannel[T any] struct {
	ch chan T
}

// NewBoundedChannel capacity 小于 1 时按 1 处理
func NewBoundedChannel[T any](capacity int) *BoundedChannel[T] {
	return &BoundedChannel[T]{ch: make(chan T, xutil.AtLeast(capacity, 1))}
}

// Put 放入 item，channel 满时阻塞直到有空位或 ctx 取消
// 有空位时总是优先写入，即使 ctx 已取消
func (c *BoundedChannel[T]) Put(ctx context.Context, item T) error {
	select {
	case c.ch <- item:
		return nil
	default:
	}
	if ctx == nil {
		c.ch <- item
		return nil
	}
	select {
	case c.ch <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get 取出队首 item，channel 空时阻塞直到有数据或 ctx 取消
func (c *BoundedChannel[T]) Get(ctx context.Context) (T, error) {
	select {
	case item := <-c.ch:
		return item, nil
	default:
	}
	if ctx == nil {
		return <-c.ch, nil
	}
	select {
	case item := <-c.ch:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Len 当前积压的 item 数量
func (c *BoundedChannel[T]) Len() int {
	return len(c.ch)
}

// Cap 容量
func (c *BoundedChannel[T]) Cap() int {
	return cap(c.ch)
}
