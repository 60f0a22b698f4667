// Package httpclient provides basic http functions
package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTimeout bounds every request made by this package
const defaultTimeout = 10 * time.Second

// GetJSON performs a GET request against url and unmarshalls the json response body into "into".
// An optional userAgent is sent when non empty, some public apis require one.
func GetJSON(url string, userAgent string, into interface{}) error {
	client := http.Client{
		Timeout: defaultTimeout,
	}
	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if len(userAgent) > 0 {
		request.Header.Set("User-Agent", userAgent)
	}
	resp, err := client.Do(request)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, into)
}
