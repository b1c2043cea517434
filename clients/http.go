package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/veripay/veripay/types"
)

// getJSON fetches a chain-explorer resource and decodes the JSON body.
// A 404 means the explorer does not know the transaction and is reported
// as notFoundMsg; any other failure (transport, timeout, non-2xx,
// malformed body) is a NETWORK_ERROR with the cause retained.
func getJSON(ctx context.Context, client *http.Client, url string, notFoundMsg string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.WrapNetworkError("failed to build explorer request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return types.WrapNetworkError("failed to query blockchain explorer", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.NewVerifyError(types.ReasonNotFound, "%s", notFoundMsg)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.WrapNetworkError("failed to query blockchain explorer",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return types.WrapNetworkError("failed to read explorer response", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return types.WrapNetworkError("malformed explorer response", err)
	}
	return nil
}
