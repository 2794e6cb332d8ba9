package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/probbet/goprob/clob/types"
)

// CreateOrder builds and signs an order from a trade intent using the
// market's tick size for rounding.
func (c *Client) CreateOrder(userOrder *types.UserOrder, tickSize types.TickSize) (*types.SignedOrder, error) {
	if err := c.canL1Auth(); err != nil {
		return nil, err
	}
	rc, ok := RoundingConfig[tickSize]
	if !ok {
		return nil, errors.Errorf("unsupported tick size: %q", string(tickSize))
	}

	data, err := BuildOrderCreationArgs(
		c.Address().Hex(),
		c.funder,
		c.signatureType(),
		userOrder,
		rc,
		c.network.CollateralDecimals,
	)
	if err != nil {
		return nil, err
	}
	return c.builder.BuildSignedOrder(data)
}

// SubmitOrder posts a signed order. The body is marshaled once and the
// L2 signature is computed over those exact bytes.
func (c *Client) SubmitOrder(ctx context.Context, order *types.SignedOrder, orderType types.OrderType) (*types.PlaceOrderResult, error) {
	if err := c.canL2Auth(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx, "entry:order:post"); err != nil {
		return nil, err
	}
	if orderType == "" {
		orderType = types.OrderTypeGTC
	}

	payload := types.NewOrder{
		DeferExec: true,
		Order:     *order,
		Owner:     c.Address().Hex(),
		OrderType: orderType,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode order payload")
	}

	path := postOrderPath(c.chainID)
	bodyStr := string(body)
	headers, err := c.l2HeadersFor(&types.L2HeaderArgs{
		Method:      http.MethodPost,
		RequestPath: path,
		Body:        &bodyStr,
	})
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.entry.do(ctx, http.MethodPost, path, headers, body, &raw); err != nil {
		return nil, err
	}

	result := &types.PlaceOrderResult{Success: true, Raw: raw}
	var remote struct {
		OrderID json.Number `json:"orderId"`
	}
	if err := json.Unmarshal(raw, &remote); err == nil {
		result.OrderID = remote.OrderID.String()
	}
	return result, nil
}

// PlaceOrder is the full flow: build, sign, ensure credentials, submit.
// A stale-credential rejection triggers one regeneration and one retry.
// An optional positive maxSpend runs a pre-flight collateral check.
func (c *Client) PlaceOrder(ctx context.Context, userOrder *types.UserOrder, tickSize types.TickSize, orderType types.OrderType) (*types.PlaceOrderResult, error) {
	if err := c.canL1Auth(); err != nil {
		return nil, err
	}
	if _, err := c.CreateOrLoadAPIKey(ctx, false); err != nil {
		return nil, err
	}

	signed, err := c.CreateOrder(userOrder, tickSize)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"tokenId": userOrder.TokenID,
		"side":    string(userOrder.Side),
		"price":   userOrder.Price,
		"size":    userOrder.Size,
	}).Info("placing order")

	var result *types.PlaceOrderResult
	err = c.withFreshCredsRetry(ctx, func() error {
		var submitErr error
		result, submitErr = c.SubmitOrder(ctx, signed, orderType)
		return submitErr
	})
	return result, err
}

// PlaceOrderChecked is PlaceOrder with a pre-flight collateral balance
// check for BUY orders. It fails fast with InsufficientBalanceError
// instead of letting the service reject the fill.
func (c *Client) PlaceOrderChecked(ctx context.Context, userOrder *types.UserOrder, tickSize types.TickSize, orderType types.OrderType) (*types.PlaceOrderResult, error) {
	if userOrder.Side == types.SideBuy {
		required := decimal.NewFromFloat(userOrder.Price).Mul(decimal.NewFromFloat(userOrder.Size))
		balance, err := c.CollateralBalance(ctx, c.funder)
		if err != nil {
			return nil, errors.Wrap(err, "pre-flight balance check")
		}
		if balance.LessThan(required) {
			return nil, &InsufficientBalanceError{Balance: balance, Required: required}
		}
	}
	return c.PlaceOrder(ctx, userOrder, tickSize, orderType)
}

// CancelOrder cancels one open order. tokenID is required by the service;
// origClientOrderID is optional.
func (c *Client) CancelOrder(ctx context.Context, orderID int64, tokenID, origClientOrderID string) error {
	if err := c.canL2Auth(); err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx, "entry:order:delete"); err != nil {
		return err
	}

	path := cancelOrderPath(c.chainID, orderID, tokenID, origClientOrderID)
	headers, err := c.l2HeadersFor(&types.L2HeaderArgs{
		Method:      http.MethodDelete,
		RequestPath: path,
	})
	if err != nil {
		return err
	}
	return c.entry.do(ctx, http.MethodDelete, path, headers, nil, nil)
}

// GetOpenOrders fetches one page of this wallet's open orders.
func (c *Client) GetOpenOrders(ctx context.Context, page, limit int) (*types.OrdersResult, error) {
	if err := c.canL2Auth(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx, "entry:orders:get"); err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	path := openOrdersPath(c.chainID, page, limit)
	headers, err := c.l2HeadersFor(&types.L2HeaderArgs{
		Method:      http.MethodGet,
		RequestPath: path,
	})
	if err != nil {
		return nil, err
	}

	var orders []types.ApiOrder
	if err := c.entry.do(ctx, http.MethodGet, path, headers, nil, &orders); err != nil {
		return nil, err
	}
	return &types.OrdersResult{Orders: orders, Total: len(orders)}, nil
}

// OpenOrders fetches a page of open orders, regenerating credentials once
// if the service rejects them as stale.
func (c *Client) OpenOrders(ctx context.Context, page, limit int) (*types.OrdersResult, error) {
	if err := c.canL1Auth(); err != nil {
		return nil, err
	}
	if _, err := c.CreateOrLoadAPIKey(ctx, false); err != nil {
		return nil, err
	}
	var result *types.OrdersResult
	err := c.withFreshCredsRetry(ctx, func() error {
		var getErr error
		result, getErr = c.GetOpenOrders(ctx, page, limit)
		return getErr
	})
	return result, err
}

// CancelOrders cancels the given orders one at a time, best effort. A
// failure is recorded and the run continues with the next order.
func (c *Client) CancelOrders(ctx context.Context, orders []types.ApiOrder) *types.CancelAllResult {
	result := &types.CancelAllResult{}
	for _, order := range orders {
		tokenID := order.TokenID
		if order.CtfTokenID != "" {
			tokenID = order.CtfTokenID
		}
		if err := c.CancelOrder(ctx, order.OrderID, tokenID, order.ClientOrderID); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, types.CancelError{
				OrderID: order.OrderID,
				Error:   err.Error(),
			})
			c.log.WithError(err).WithField("orderId", order.OrderID).Warn("cancel failed")
			continue
		}
		result.Success++
	}
	return result
}

// CancelAll fetches every open order page by page and cancels them all,
// best effort.
func (c *Client) CancelAll(ctx context.Context) (*types.CancelAllResult, error) {
	if err := c.canL1Auth(); err != nil {
		return nil, err
	}
	if _, err := c.CreateOrLoadAPIKey(ctx, false); err != nil {
		return nil, err
	}

	total := &types.CancelAllResult{}
	const pageSize = 100
	// Cancelling shifts the remaining orders down, so always refetch the
	// first page. Stop when it is empty or a round makes no progress
	// (everything left has already failed once).
	for {
		var orders *types.OrdersResult
		err := c.withFreshCredsRetry(ctx, func() error {
			var getErr error
			orders, getErr = c.GetOpenOrders(ctx, 1, pageSize)
			return getErr
		})
		if err != nil {
			return total, err
		}
		if len(orders.Orders) == 0 {
			break
		}

		partial := c.CancelOrders(ctx, orders.Orders)
		total.Success += partial.Success
		total.Failed += partial.Failed
		total.Errors = append(total.Errors, partial.Errors...)

		if partial.Success == 0 {
			break
		}
	}

	c.log.WithFields(logrus.Fields{
		"success": total.Success,
		"failed":  total.Failed,
	}).Info("cancel all finished")
	return total, nil
}
