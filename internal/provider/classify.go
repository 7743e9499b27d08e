// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/foldlab/protein-research/pkg/types"
)

// ClassifyStatus maps an HTTP status code to an ErrorKind. 2xx codes are not
// failures and must not reach this function.
func ClassifyStatus(status int) types.ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return types.ErrRateLimited
	case status == http.StatusNotFound || status == http.StatusGone:
		return types.ErrNotFound
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return types.ErrTimeout
	case status >= 500:
		return types.ErrTransientServer
	default:
		return types.ErrUnknown
	}
}

// ClassifyErr maps a transport-level error to an ErrorKind. Context
// expiration and net timeouts surface as ErrTimeout so a slow provider
// resolves as a timed-out result instead of hanging the run.
func ClassifyErr(err error) types.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return types.ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.ErrTimeout
	}
	return types.ErrUnknown
}
