// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes every HTTP body the API produces.

Success bodies are bare objects because the storefront clients read "token"
and "user" at the top level. Lists wrap rows in {data, meta}. Failures are
always {message, code, details?} and never echo an internal error's text.
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/storefront/internal/platform/apperr"
	"github.com/taibuivan/storefront/internal/platform/ctxutil"
	"github.com/taibuivan/storefront/pkg/pagination"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Page is the list body: one page of rows plus its position.
type Page struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// Failure is the error body.
type Failure struct {
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

func JSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", contentTypeJSON)
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		// Headers are gone; the client sees a truncated body.
		slog.Debug("response_encode_failed", slog.Any("error", err))
	}
}

func OK(writer http.ResponseWriter, body any)      { JSON(writer, http.StatusOK, body) }
func Created(writer http.ResponseWriter, body any) { JSON(writer, http.StatusCreated, body) }

func Paginated(writer http.ResponseWriter, rows any, meta pagination.Meta) {
	JSON(writer, http.StatusOK, Page{Data: rows, Meta: meta})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error renders err as a Failure.

An [*apperr.AppError] anywhere in the chain keeps its status and code. Any
other error becomes a generic 500. Every 5xx is logged with its cause and the
request ID so the opaque body can be traced.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "request_failed",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, Failure{
		Message: appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
