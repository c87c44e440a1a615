package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/mdlookup/internal/query"
)

// keywordProvider is a second backend with its own vocabulary. It only
// understands titles and artists and joins everything with '+'.
type keywordProvider struct {
	err error
}

type keywordResult struct {
	Query string
}

func (p *keywordProvider) Name() string { return "keywords" }

func (p *keywordProvider) Compile(q query.Expr) string {
	switch q.Kind() {
	case query.KindTitle:
		return "t=" + q.Text()
	case query.KindArtist:
		return "a=" + q.Text()
	case query.KindAnd, query.KindOr:
		return p.Compile(q.Left()) + "+" + p.Compile(q.Right())
	}
	return ""
}

func (p *keywordProvider) Run(ctx context.Context, q query.Expr) (*keywordResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, TransportError(p.Name(), 0, err)
	}
	if p.err != nil {
		return nil, p.err
	}
	return &keywordResult{Query: p.Compile(q)}, nil
}

var _ Provider[*keywordResult] = (*keywordProvider)(nil)

func TestErase(t *testing.T) {
	p := Erase[*keywordResult](&keywordProvider{})
	q := query.Title("x").And(query.Artist("y"))

	assert.Equal(t, "keywords", p.Name())
	assert.Equal(t, "t=x+a=y", p.Compile(q))

	res, err := p.Run(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, &keywordResult{Query: "t=x+a=y"}, res)
}

func TestEraseReturnsNilOnError(t *testing.T) {
	p := Erase[*keywordResult](&keywordProvider{err: DecodeError("keywords", errors.New("bad body"))})

	res, err := p.Run(context.Background(), query.Title("x"))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrDecode)
}

// silentProvider finds nothing and says so with a nil response.
type silentProvider struct{ keywordProvider }

func (p *silentProvider) Run(ctx context.Context, q query.Expr) (*keywordResult, error) {
	return nil, nil
}

func TestEraseUnwrapsNilResponse(t *testing.T) {
	p := Erase[*keywordResult](&silentProvider{})

	res, err := p.Run(context.Background(), query.Title("x"))
	require.NoError(t, err)
	assert.True(t, res == nil, "expected untyped nil, got %#v", res)
}

func TestEraseRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Erase[*keywordResult](&keywordProvider{})
	_, err := p.Run(ctx, query.Title("x"))
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("boom")

	transport := TransportError("mb", 503, cause)
	assert.ErrorIs(t, transport, ErrTransport)
	assert.NotErrorIs(t, transport, ErrDecode)
	assert.ErrorIs(t, transport, cause)
	assert.Equal(t, "mb: transport error (status 503): boom", transport.Error())

	decode := DecodeError("mb", cause)
	assert.ErrorIs(t, decode, ErrDecode)
	assert.NotErrorIs(t, decode, ErrTransport)
	assert.Equal(t, "mb: decode error: boom", decode.Error())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("search: %w", DecodeError("mb", errors.New("x")))

	assert.Equal(t, KindDecode, KindOf(wrapped))
	assert.Equal(t, KindTransport, KindOf(TransportError("mb", 0, errors.New("x"))))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "decode", KindDecode.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	kw := Erase[*keywordResult](&keywordProvider{})
	r.Register(kw)
	assert.Equal(t, "keywords", r.Default())

	got, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "keywords", got.Name())

	got, err = r.Get("keywords")
	require.NoError(t, err)
	assert.Equal(t, "keywords", got.Name())

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.ErrorIs(t, r.SetDefault("missing"), ErrUnknownProvider)
	assert.Equal(t, []string{"keywords"}, r.Names())
}
