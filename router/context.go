package router

import "context"

type keyCtxKey struct{}

// WithKey 返回携带路由键的 Context，Select 会优先使用该键
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, keyCtxKey{}, key)
}

// KeyFromContext 取出 WithKey 设置的路由键
func KeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(keyCtxKey{}).(string)
	return key, ok
}
