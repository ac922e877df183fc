package inference

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"peak/pkg/utils"
)

// ErrInvalidCredential means the provider rejected the API key.
var ErrInvalidCredential = errors.New("invalid api key")

// Inferencer defines an interface for running model inference and verification.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	Verify(ctx context.Context, result string) (bool, error)
}

// credentialMarkers are the fragments providers put in auth failures when the
// status code is not available as a typed error.
var credentialMarkers = []string{"API key not valid", "401", "403"}

// Classify wraps provider errors caused by a rejected API key with
// ErrInvalidCredential. Other errors are returned untouched.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrInvalidCredential) {
		return err
	}
	if isAuthStatus(err) || utils.StringContains(err.Error(), true, credentialMarkers...) {
		return errors.Join(ErrInvalidCredential, err)
	}
	return err
}

func isAuthStatus(err error) bool {
	auth := func(code int) bool {
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) && auth(apiErr.StatusCode) {
		return true
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) && auth(gErr.Code) {
		return true
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) && gErrPtr != nil && auth(gErrPtr.Code) {
		return true
	}
	return false
}

func verifyNonEmpty(result string) (bool, error) {
	if result == "" {
		return false, errors.New("empty result")
	}
	return true, nil
}
