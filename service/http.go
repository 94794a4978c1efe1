package service

import (
	"fmt"
	"io"
	"net/http"
)

// HTTPStatusError is returned by GetBody when the server does not answer 200
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Body)
}

// GetBody executes the request once and returns the body and the headers of the response.
// 408, 429 and 5xx statuses are returned as temporary errors
func GetBody(client *http.Client, req *http.Request) ([]byte, http.Header, error) {
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, MakeTemporary(fmt.Errorf("GetBody: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, MakeTemporary(fmt.Errorf("GetBody.ReadAll: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		err := HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
		switch {
		case resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			return nil, nil, MakeTemporary(err)
		default:
			return nil, nil, err
		}
	}
	return body, resp.Header, nil
}
