package main

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/probbet/goprob/clob/client"
	"github.com/probbet/goprob/clob/signing"
	"github.com/probbet/goprob/clob/types"
	"github.com/probbet/goprob/pkg/config"
	"github.com/probbet/goprob/pkg/logger"
)

const usage = `probctl - Probable prediction market trading client

Usage:
  probctl [-config FILE] COMMAND [args]

Commands:
  markets [-query Q]             list tradeable markets
  balance [-address ADDR]        show collateral balance
  apikey create|show|delete      manage L2 api credentials
  place -token ID -side BUY|SELL -price P -size S [-tick T] [-type GTC]
                                 place an order
  open [-page N] [-limit N]      list open orders
  cancel -order ID -token ID     cancel one order
  cancel-all                     cancel every open order
  approvals check|grant          token approvals for trading
  proxy check|create             proxy wallet management

Environment (or .env): WALLET_PRIVATE_KEY, CHAIN_ID, RPC_URL,
CRED_STORE_PATH, CRED_STORE_KEY, LOG_LEVEL.
`

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "YAML config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.OutputFile,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &app{cfg: cfg}
	defer app.close()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := app.run(ctx, cmd, args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "probctl: %v\n", err)
	os.Exit(1)
}

type app struct {
	cfg *config.Config

	clob      *client.Client
	chain     *client.ChainClient
	credStore *client.SecretCredentialStore
}

func (a *app) close() {
	if a.chain != nil {
		a.chain.Close()
	}
	if a.credStore != nil {
		_ = a.credStore.Close()
	}
}

func (a *app) chainID() types.Chain {
	return types.Chain(a.cfg.Network.ChainID)
}

// readClient builds a client without a signer, enough for public data.
func (a *app) readClient() (*client.Client, error) {
	if a.clob != nil {
		return a.clob, nil
	}
	c, err := client.NewClient(a.chainID(), nil, &client.Options{
		EntryService:  a.cfg.Network.EntryService,
		MarketService: a.cfg.Network.MarketService,
	})
	if err != nil {
		return nil, err
	}
	a.clob = c
	return c, nil
}

// tradingClient builds the full signing client, wiring the credential
// store and the chain connection when configured.
func (a *app) tradingClient(needChain bool) (*client.Client, error) {
	if a.cfg.Wallet.PrivateKey == "" {
		return nil, fmt.Errorf("WALLET_PRIVATE_KEY is not set")
	}
	signer, err := signing.NewPrivateKeySigner(a.cfg.Wallet.PrivateKey)
	if err != nil {
		return nil, err
	}

	opts := &client.Options{
		AccountType:   types.AccountType(a.cfg.Wallet.AccountType),
		Funder:        a.cfg.Wallet.Funder,
		EntryService:  a.cfg.Network.EntryService,
		MarketService: a.cfg.Network.MarketService,
	}
	if a.cfg.Store.Path != "" {
		store, err := client.OpenSecretCredentialStore(a.cfg.Store.Path, a.cfg.Store.EncryptionKey)
		if err != nil {
			return nil, err
		}
		a.credStore = store
		opts.CredStore = store
	}
	if needChain {
		chain, err := a.chainClient()
		if err != nil {
			return nil, err
		}
		opts.Chain = chain
	}

	c, err := client.NewClient(a.chainID(), signer, opts)
	if err != nil {
		return nil, err
	}
	a.clob = c
	return c, nil
}

func (a *app) chainClient() (*client.ChainClient, error) {
	if a.chain != nil {
		return a.chain, nil
	}
	var key *ecdsa.PrivateKey
	if a.cfg.Wallet.PrivateKey != "" {
		signer, err := signing.NewPrivateKeySigner(a.cfg.Wallet.PrivateKey)
		if err != nil {
			return nil, err
		}
		key = signer.Key()
	}
	chain, err := client.NewChainClient(a.cfg.Network.RPCURL, a.chainID(), key)
	if err != nil {
		return nil, err
	}
	a.chain = chain
	return chain, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "markets":
		return a.cmdMarkets(ctx, args)
	case "balance":
		return a.cmdBalance(ctx, args)
	case "apikey":
		return a.cmdAPIKey(ctx, args)
	case "place":
		return a.cmdPlace(ctx, args)
	case "open":
		return a.cmdOpen(ctx, args)
	case "cancel":
		return a.cmdCancel(ctx, args)
	case "cancel-all":
		return a.cmdCancelAll(ctx)
	case "approvals":
		return a.cmdApprovals(ctx, args)
	case "proxy":
		return a.cmdProxy(ctx, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) cmdMarkets(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("markets", flag.ExitOnError)
	query := fs.String("query", "", "filter by question, slug or description")
	limit := fs.Int("limit", 50, "page size")
	_ = fs.Parse(args)

	c, err := a.readClient()
	if err != nil {
		return err
	}
	resp, err := c.FetchMarkets(ctx, 1, *limit)
	if err != nil {
		return err
	}
	markets := resp.Markets
	if *query != "" {
		markets = client.FilterMarketsByDescription(markets, *query)
	}
	for _, m := range markets {
		fmt.Printf("%s  %s\n", m.Slug, m.Question)
		for _, t := range m.Tokens {
			fmt.Printf("    %-8s token=%s price=%s\n", t.Outcome, t.TokenID, t.Price)
		}
	}
	fmt.Printf("%d markets\n", len(markets))
	return nil
}

func (a *app) cmdBalance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	address := fs.String("address", "", "address to query, defaults to the wallet")
	_ = fs.Parse(args)

	chain, err := a.chainClient()
	if err != nil {
		return err
	}
	addr := *address
	if addr == "" {
		if a.cfg.Wallet.Funder != "" {
			addr = a.cfg.Wallet.Funder
		} else if a.cfg.Wallet.PrivateKey != "" {
			signer, err := signing.NewPrivateKeySigner(a.cfg.Wallet.PrivateKey)
			if err != nil {
				return err
			}
			addr = signer.Address().Hex()
		} else {
			return fmt.Errorf("no address: pass -address or set WALLET_PRIVATE_KEY")
		}
	}
	balance, err := chain.CollateralBalanceOf(ctx, addr)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s USDT\n", addr, balance.StringFixed(6))
	return nil
}

func (a *app) cmdAPIKey(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: probctl apikey create|show|delete")
	}
	c, err := a.tradingClient(false)
	if err != nil {
		return err
	}

	switch args[0] {
	case "create":
		creds, err := c.CreateOrLoadAPIKey(ctx, true)
		if err != nil {
			return err
		}
		return printJSON(creds)
	case "show":
		creds, err := c.CreateOrLoadAPIKey(ctx, false)
		if err != nil {
			return err
		}
		return printJSON(creds)
	case "delete":
		if err := c.DeleteStoredAPIKey(); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	default:
		return fmt.Errorf("unknown apikey subcommand %q", args[0])
	}
}

func (a *app) cmdPlace(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("place", flag.ExitOnError)
	token := fs.String("token", "", "outcome token id")
	side := fs.String("side", "", "BUY or SELL")
	price := fs.Float64("price", 0, "limit price, 0 < p < 1")
	size := fs.Float64("size", 0, "order size in shares")
	tick := fs.String("tick", "0.01", "market tick size")
	orderType := fs.String("type", "GTC", "order type")
	checked := fs.Bool("checked", false, "pre-flight balance check (needs RPC)")
	_ = fs.Parse(args)

	if *token == "" || *side == "" {
		return fmt.Errorf("place: -token and -side are required")
	}
	parsedSide, err := types.ParseSide(*side)
	if err != nil {
		return err
	}

	c, err := a.tradingClient(*checked)
	if err != nil {
		return err
	}
	order := &types.UserOrder{
		TokenID: *token,
		Price:   *price,
		Size:    *size,
		Side:    parsedSide,
	}

	var result *types.PlaceOrderResult
	if *checked {
		result, err = c.PlaceOrderChecked(ctx, order, types.TickSize(*tick), types.OrderType(*orderType))
	} else {
		result, err = c.PlaceOrder(ctx, order, types.TickSize(*tick), types.OrderType(*orderType))
	}
	if err != nil {
		return err
	}
	fmt.Printf("placed order %s\n", result.OrderID)
	return nil
}

func (a *app) cmdOpen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	_ = fs.Parse(args)

	c, err := a.tradingClient(false)
	if err != nil {
		return err
	}
	result, err := c.OpenOrders(ctx, *page, *limit)
	if err != nil {
		return err
	}
	for _, o := range result.Orders {
		fmt.Printf("%d  %-4s %s @ %s  filled %s/%s  token=%s\n",
			o.OrderID, o.Side, o.OrigQty, o.Price, o.ExecutedQty, o.OrigQty, o.TokenID)
	}
	fmt.Printf("%d open orders\n", len(result.Orders))
	return nil
}

func (a *app) cmdCancel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	orderID := fs.String("order", "", "order id")
	token := fs.String("token", "", "outcome token id")
	clientOrderID := fs.String("client-order", "", "original client order id")
	_ = fs.Parse(args)

	if *orderID == "" || *token == "" {
		return fmt.Errorf("cancel: -order and -token are required")
	}
	id, err := strconv.ParseInt(*orderID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", *orderID)
	}

	c, err := a.tradingClient(false)
	if err != nil {
		return err
	}
	if _, err := c.CreateOrLoadAPIKey(ctx, false); err != nil {
		return err
	}
	if err := c.CancelOrder(ctx, id, *token, *clientOrderID); err != nil {
		return err
	}
	fmt.Println("cancelled")
	return nil
}

func (a *app) cmdCancelAll(ctx context.Context) error {
	c, err := a.tradingClient(false)
	if err != nil {
		return err
	}
	result, err := c.CancelAll(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("cancelled %d, failed %d\n", result.Success, result.Failed)
	for _, e := range result.Errors {
		fmt.Printf("  order %d: %s\n", e.OrderID, e.Error)
	}
	return nil
}

func (a *app) cmdApprovals(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: probctl approvals check|grant")
	}
	chain, err := a.chainClient()
	if err != nil {
		return err
	}

	switch args[0] {
	case "check":
		fs := flag.NewFlagSet("approvals check", flag.ExitOnError)
		address := fs.String("address", "", "address to check, defaults to the wallet")
		_ = fs.Parse(args[1:])
		addr := *address
		if addr == "" {
			if a.cfg.Wallet.PrivateKey == "" {
				return fmt.Errorf("no address: pass -address or set WALLET_PRIVATE_KEY")
			}
			signer, err := signing.NewPrivateKeySigner(a.cfg.Wallet.PrivateKey)
			if err != nil {
				return err
			}
			addr = signer.Address().Hex()
		}
		status, err := chain.CheckApprovals(ctx, addr)
		if err != nil {
			return err
		}
		return printJSON(status)
	case "grant":
		result, err := chain.GrantApprovals(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("executed %d approvals\n", result.Executed)
		for _, h := range result.TxHashes {
			fmt.Printf("  %s\n", h)
		}
		return nil
	default:
		return fmt.Errorf("unknown approvals subcommand %q", args[0])
	}
}

func (a *app) cmdProxy(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: probctl proxy check|create")
	}
	chain, err := a.chainClient()
	if err != nil {
		return err
	}

	switch args[0] {
	case "check":
		if a.cfg.Wallet.PrivateKey == "" {
			return fmt.Errorf("WALLET_PRIVATE_KEY is not set")
		}
		signer, err := signing.NewPrivateKeySigner(a.cfg.Wallet.PrivateKey)
		if err != nil {
			return err
		}
		wallet, err := chain.CheckProxyWallet(ctx, signer.Address().Hex())
		if err != nil {
			return err
		}
		fmt.Printf("proxy %s exists=%v\n", wallet.Address.Hex(), wallet.Exists)
		return nil
	case "create":
		wallet, err := chain.CreateProxyWallet(ctx)
		if err != nil {
			return err
		}
		if wallet.TxHash == (common.Hash{}) {
			fmt.Printf("proxy %s already deployed\n", wallet.Address.Hex())
		} else {
			fmt.Printf("proxy %s deployed in tx %s\n", wallet.Address.Hex(), wallet.TxHash)
		}
		return nil
	default:
		return fmt.Errorf("unknown proxy subcommand %q", args[0])
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
