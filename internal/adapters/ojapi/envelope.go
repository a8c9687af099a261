package ojapi

import "context"

// Envelope is the wrapper around every API payload.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Data    *T     `json:"data"`
	Message string `json:"message"`
}

// OK reports a successful envelope.
func (e Envelope[T]) OK() bool { return e.Code == CodeSuccess }

// Unwrap returns the payload of a successful envelope with data, or an *APIError.
func (e Envelope[T]) Unwrap() (T, error) {
	var zero T
	if !e.OK() {
		return zero, &APIError{Code: e.Code, Message: e.Message}
	}
	if e.Data == nil {
		return zero, nil
	}
	return *e.Data, nil
}

// Page is the backend's pagination wrapper.
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Size    int64 `json:"size"`
	Current int64 `json:"current"`
	Pages   int64 `json:"pages"`
}

// call performs req and unwraps the envelope into T.
func call[T any](ctx context.Context, c *Client, req Request) (T, *Response, error) {
	var env Envelope[T]
	resp, err := c.Do(ctx, req, &env)
	if err != nil {
		var zero T
		return zero, resp, err
	}
	data, err := env.Unwrap()
	return data, resp, err
}
