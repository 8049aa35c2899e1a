package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// sharedCallTimeout верхняя граница общего запроса к хранилищу
const sharedCallTimeout = 30 * time.Second

// doShared выполняет fn один раз на ключ для всех одновременных вызовов.
// fn работает под контекстом без отмены первого вызывающего, а каждый
// вызывающий ждет результат под своим ctx.
func doShared(ctx context.Context, group *singleflight.Group, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, bool, error) {
	ch := group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		return fn(callCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
