package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// maxUint256 is the unlimited-allowance sentinel.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ApprovalStatus reports which of the three trading approvals are still
// missing for an address: collateral spendable by the conditional-token
// contract, collateral spendable by the exchange, and conditional tokens
// operable by the exchange.
type ApprovalStatus struct {
	NeedsCollateralForCTF      bool
	NeedsCollateralForExchange bool
	NeedsCTFForExchange        bool
}

// AllGranted reports whether nothing is missing.
func (s ApprovalStatus) AllGranted() bool {
	return !s.NeedsCollateralForCTF && !s.NeedsCollateralForExchange && !s.NeedsCTFForExchange
}

// ApprovalResult is the outcome of an approval run.
type ApprovalResult struct {
	Executed int
	TxHashes []common.Hash
}

// CheckApprovals reads the three approvals for the given address. Works
// for both EOA and proxy wallet addresses.
func (cc *ChainClient) CheckApprovals(ctx context.Context, address string) (*ApprovalStatus, error) {
	owner := common.HexToAddress(address)
	collateral := common.HexToAddress(cc.network.Collateral)
	ctf := common.HexToAddress(cc.network.ConditionalTokens)
	exchange := common.HexToAddress(cc.network.Exchange)

	var allowanceCTF, allowanceExchange *big.Int
	var approvedForAll bool

	if err := cc.call(ctx, cc.erc20ABI, collateral, "allowance", &allowanceCTF, owner, ctf); err != nil {
		return nil, err
	}
	if err := cc.call(ctx, cc.erc20ABI, collateral, "allowance", &allowanceExchange, owner, exchange); err != nil {
		return nil, err
	}
	if err := cc.call(ctx, cc.erc1155ABI, ctf, "isApprovedForAll", &approvedForAll, owner, exchange); err != nil {
		return nil, err
	}

	return &ApprovalStatus{
		NeedsCollateralForCTF:      allowanceCTF.Cmp(maxUint256) < 0,
		NeedsCollateralForExchange: allowanceExchange.Cmp(maxUint256) < 0,
		NeedsCTFForExchange:        !approvedForAll,
	}, nil
}

// GrantApprovals grants every missing approval from the key's own
// address, waiting for each transaction to mine before the next. This
// covers EOA account mode; a proxy wallet's approvals must be executed
// by the proxy itself, see BuildProxyApprovalCalls.
func (cc *ChainClient) GrantApprovals(ctx context.Context) (*ApprovalResult, error) {
	from, err := cc.from()
	if err != nil {
		return nil, err
	}
	status, err := cc.CheckApprovals(ctx, from.Hex())
	if err != nil {
		return nil, err
	}

	collateral := common.HexToAddress(cc.network.Collateral)
	ctf := common.HexToAddress(cc.network.ConditionalTokens)
	exchange := common.HexToAddress(cc.network.Exchange)

	result := &ApprovalResult{}
	run := func(contractABI abi.ABI, contract common.Address, method string, args ...any) error {
		txHash, err := cc.sendTx(ctx, contractABI, contract, method, args...)
		if err != nil {
			return err
		}
		ok, err := cc.WaitMined(ctx, txHash)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Errorf("%s transaction %s reverted", method, txHash)
		}
		result.Executed++
		result.TxHashes = append(result.TxHashes, txHash)
		return nil
	}

	if status.NeedsCollateralForCTF {
		if err := run(cc.erc20ABI, collateral, "approve", ctf, maxUint256); err != nil {
			return result, err
		}
	}
	if status.NeedsCollateralForExchange {
		if err := run(cc.erc20ABI, collateral, "approve", exchange, maxUint256); err != nil {
			return result, err
		}
	}
	if status.NeedsCTFForExchange {
		if err := run(cc.erc1155ABI, ctf, "setApprovalForAll", exchange, true); err != nil {
			return result, err
		}
	}
	return result, nil
}

// ProxyApprovalCall is one approval encoded for execution by a proxy
// wallet. The proxy must be the msg.sender for the allowance to bind to
// it, so these calls cannot be sent from the owning EOA.
type ProxyApprovalCall struct {
	To   common.Address
	Data []byte
}

// BuildProxyApprovalCalls encodes the missing approvals for a proxy
// wallet. Execution is left to the caller's proxy transaction machinery.
func (cc *ChainClient) BuildProxyApprovalCalls(ctx context.Context, proxyAddress string) ([]ProxyApprovalCall, error) {
	status, err := cc.CheckApprovals(ctx, proxyAddress)
	if err != nil {
		return nil, err
	}

	collateral := common.HexToAddress(cc.network.Collateral)
	ctf := common.HexToAddress(cc.network.ConditionalTokens)
	exchange := common.HexToAddress(cc.network.Exchange)

	var calls []ProxyApprovalCall
	if status.NeedsCollateralForCTF {
		data, err := cc.erc20ABI.Pack("approve", ctf, maxUint256)
		if err != nil {
			return nil, errors.Wrap(err, "pack approve")
		}
		calls = append(calls, ProxyApprovalCall{To: collateral, Data: data})
	}
	if status.NeedsCollateralForExchange {
		data, err := cc.erc20ABI.Pack("approve", exchange, maxUint256)
		if err != nil {
			return nil, errors.Wrap(err, "pack approve")
		}
		calls = append(calls, ProxyApprovalCall{To: collateral, Data: data})
	}
	if status.NeedsCTFForExchange {
		data, err := cc.erc1155ABI.Pack("setApprovalForAll", exchange, true)
		if err != nil {
			return nil, errors.Wrap(err, "pack setApprovalForAll")
		}
		calls = append(calls, ProxyApprovalCall{To: ctf, Data: data})
	}
	return calls, nil
}
