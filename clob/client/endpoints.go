package client

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/probbet/goprob/clob/types"
)

// Entry-service paths. Every authenticated path carries the chain id; the
// L2 signature covers the path including any query string.
const apiBase = "/public/api/v1"

func createAPIKeyPath(chainID types.Chain) string {
	return fmt.Sprintf("%s/auth/api-key/%d", apiBase, chainID)
}

func postOrderPath(chainID types.Chain) string {
	return fmt.Sprintf("%s/order/%d", apiBase, chainID)
}

func cancelOrderPath(chainID types.Chain, orderID int64, tokenID, origClientOrderID string) string {
	q := url.Values{}
	q.Set("tokenId", tokenID)
	if origClientOrderID != "" {
		q.Set("origClientOrderId", origClientOrderID)
	}
	return fmt.Sprintf("%s/order/%d/%d?%s", apiBase, chainID, orderID, q.Encode())
}

func openOrdersPath(chainID types.Chain, page, limit int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return fmt.Sprintf("%s/orders/%d/open?%s", apiBase, chainID, q.Encode())
}

const marketsPath = apiBase + "/markets"
