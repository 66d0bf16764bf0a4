package shared

import "context"

// Token is the bearer credential forwarded to the ERP backend.
type Token string

type tokenContextKey struct{}

// ContextWithToken stores the request credential in context.
func ContextWithToken(ctx context.Context, tok Token) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, tok)
}

// TokenFromContext extracts the request credential from context.
func TokenFromContext(ctx context.Context) Token {
	tok, _ := ctx.Value(tokenContextKey{}).(Token)
	return tok
}
