package auditapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/temirov/sheetaudit/internal/docref"
)

const (
	contentTypeHeaderNameConstant         = "Content-Type"
	jsonContentTypeValueConstant          = "application/json"
	endpointNotAbsoluteTemplateConstant   = "audit endpoint URL %q is not an absolute URL"
	requestEncodingFailureTemplate        = "unable to encode audit request: %w"
	requestCreationFailureTemplate        = "unable to create audit request: %w"
	transportFailureTemplateConstant      = "audit request failed: %w"
	responseReadFailureTemplateConstant   = "unable to read audit response: %w"
	responseDecodeFailureTemplate         = "unable to decode audit response: %w"
	defaultRequestTimeoutDurationConstant = 120 * time.Second
)

// Doer performs a single HTTP exchange. Tests substitute canned responses
// through this seam; production code uses a timeout-bounded http.Client.
type Doer interface {
	Do(request *http.Request) (*http.Response, error)
}

// Client issues audit requests against a statically configured endpoint.
type Client struct {
	endpointURL string
	httpDoer    Doer
}

// NewClient validates the endpoint eagerly and constructs a Client.
//
// An empty or relative endpoint URL fails here, before any invocation is
// attempted, so a misconfigured deployment surfaces at startup. A nil doer
// selects an http.Client bounded by requestTimeout (or the package default
// when requestTimeout is not positive).
func NewClient(endpointURL string, requestTimeout time.Duration, httpDoer Doer) (*Client, error) {
	trimmedEndpointURL := strings.TrimSpace(endpointURL)
	if len(trimmedEndpointURL) == 0 {
		return nil, ErrEndpointNotConfigured
	}

	parsedEndpointURL, parseError := url.Parse(trimmedEndpointURL)
	if parseError != nil || !parsedEndpointURL.IsAbs() || len(parsedEndpointURL.Host) == 0 {
		return nil, fmt.Errorf(endpointNotAbsoluteTemplateConstant, trimmedEndpointURL)
	}

	if httpDoer == nil {
		if requestTimeout <= 0 {
			requestTimeout = defaultRequestTimeoutDurationConstant
		}
		httpDoer = &http.Client{Timeout: requestTimeout}
	}

	return &Client{endpointURL: trimmedEndpointURL, httpDoer: httpDoer}, nil
}

// Audit performs exactly one synchronous request for the referenced document
// and classifies the response.
//
// HTTP-level error statuses are inspected, never raised by the transport, so
// the outcome classes stay distinguishable: a non-success status returns
// *ServerError with the verbatim body, a success status with an empty result
// sequence returns ErrNoAuditResults, and transport or decode failures are
// wrapped with their underlying message. No retry is attempted.
func (client *Client) Audit(executionContext context.Context, reference docref.DocumentReference) ([]ResultRow, error) {
	requestPayload := AuditRequest{DocURL: string(reference)}
	encodedPayload, encodingError := json.Marshal(requestPayload)
	if encodingError != nil {
		return nil, fmt.Errorf(requestEncodingFailureTemplate, encodingError)
	}

	request, requestError := http.NewRequestWithContext(executionContext, http.MethodPost, client.endpointURL, bytes.NewReader(encodedPayload))
	if requestError != nil {
		return nil, fmt.Errorf(requestCreationFailureTemplate, requestError)
	}
	request.Header.Set(contentTypeHeaderNameConstant, jsonContentTypeValueConstant)

	response, transportError := client.httpDoer.Do(request)
	if transportError != nil {
		return nil, fmt.Errorf(transportFailureTemplateConstant, transportError)
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, fmt.Errorf(responseReadFailureTemplateConstant, readError)
	}

	if response.StatusCode != http.StatusOK {
		return nil, &ServerError{StatusCode: response.StatusCode, Body: string(responseBody)}
	}

	var resultRows []ResultRow
	if decodeError := json.Unmarshal(responseBody, &resultRows); decodeError != nil {
		return nil, fmt.Errorf(responseDecodeFailureTemplate, decodeError)
	}

	if len(resultRows) == 0 {
		return nil, ErrNoAuditResults
	}

	return resultRows, nil
}
