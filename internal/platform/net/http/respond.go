// Package http writes the JSON envelope every endpoint answers with
package http

import (
	"encoding/json"
	stdhttp "net/http"

	lumnet "atelier/internal/platform/net"
)

// Envelope is the response body of every endpoint
type Envelope = lumnet.Wire

// Page is the cursor block of a list; Next and Prev are opaque tokens
type Page struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Next     string `json:"next,omitempty"`
	Prev     string `json:"prev,omitempty"`
	HasNext  bool   `json:"has_next"`
	HasPrev  bool   `json:"has_prev"`
}

// Listing is the data of a list response
type Listing struct {
	Items any  `json:"items"`
	Page  Page `json:"page"`
}

// JSON writes v with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes err as an envelope; the status and code come from its perr code
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, env := lumnet.Error(err, lumnet.RequestID(r.Context()))
	JSON(w, status, env)
}

// Response is what return-style handlers produce; an error Body becomes an error envelope
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if err, ok := resp.Body.(error); ok && err != nil {
		RespondError(w, r, err)
		return
	}

	status := resp.Status
	switch status {
	case 0:
		status = stdhttp.StatusOK
	case stdhttp.StatusNoContent:
		w.WriteHeader(status)
		return
	}
	JSON(w, status, lumnet.Reply(status, resp.Body, lumnet.RequestID(r.Context())))
}

func OK(data any) Response      { return Response{Status: stdhttp.StatusOK, Body: data} }
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }
func NoContent() Response       { return Response{Status: stdhttp.StatusNoContent} }
func Error(err error) Response  { return Response{Body: err} }

// List answers 200 with items and their cursor block
func List(items any, page Page) Response {
	return OK(Listing{Items: items, Page: page})
}
