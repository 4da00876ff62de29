package trias_client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/lokanidao9991/SmartBusBoard/dlog"
	"github.com/pkg/errors"
)

// DefaultURL is the opentransportdata.swiss TRIAS 2020 endpoint.
const DefaultURL = "https://api.opentransportdata.swiss/trias2020"

// TriasClient configuration options for connecting to and requesting departures from TRIAS
type TriasClient struct {
	Client   *http.Client
	Logger   *dlog.Logger
	TriasURL string
}

type TriasClientInterface interface {
	Request(ctx context.Context, apiKey string, triasRequest string) ([]byte, int, error)
}

// Request posts a TRIAS request document and returns the raw response body.
// Any status other than 200 is an error and the body must not be parsed.
func (tc *TriasClient) Request(ctx context.Context, apiKey string, triasRequest string) ([]byte, int, error) {
	tc.Logger.Debug("TRIAS Request")

	req, err := tc.createTriasHTTPRequest(ctx, apiKey, triasRequest)
	if err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(err, "cannot create TRIAS HTTP request")
	}

	resp, err := tc.Client.Do(req)
	if err != nil {
		return nil, http.StatusGatewayTimeout, errors.Wrap(err, "cannot make TRIAS HTTP request")
	}

	body, err := tc.readTriasHTTPResponse(resp)
	if err != nil {
		return nil, http.StatusInternalServerError, errors.Wrap(err, "cannot read TRIAS response")
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, http.StatusBadGateway, errors.Errorf("TRIAS is unavailable: HTTP %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, resp.StatusCode, errors.Errorf("request rejected by TRIAS: HTTP %d: %s", resp.StatusCode, snippet(body))
	}

	return body, http.StatusOK, nil
}

func (tc *TriasClient) createTriasHTTPRequest(ctx context.Context, apiKey string, triasRequest string) (*http.Request, error) {
	tc.Logger.Debug("createTriasHTTPRequest")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.TriasURL, strings.NewReader(triasRequest))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", apiKey)
	req.Header.Set("Content-Type", "text/XML")
	return req, nil
}

func (tc *TriasClient) readTriasHTTPResponse(response *http.Response) (body []byte, err error) {
	tc.Logger.Debug("readTriasHTTPResponse")
	defer func() {
		if ferr := response.Body.Close(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	body, err = io.ReadAll(response.Body)
	return body, err
}

const snippetLength = 120

// snippet keeps error messages readable when TRIAS answers with an HTML page.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(s) > snippetLength {
		return string([]rune(s)[:snippetLength]) + "..."
	}
	return s
}
