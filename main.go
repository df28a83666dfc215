package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/wowBlaBla/beefy-contracts/core"
	"github.com/wowBlaBla/beefy-contracts/deploy"
	"github.com/wowBlaBla/beefy-contracts/display"
	"github.com/wowBlaBla/beefy-contracts/predict"
	"github.com/wowBlaBla/beefy-contracts/testhelpers"
)

var (
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "hardhat network name",
		Value: "fantom",
	}
	networksFlag = &cli.StringFlag{
		Name:  "networks",
		Usage: "yaml file with extra or overriding network entries",
	}
)

func main() {
	app := &cli.App{
		Name:  "beefy",
		Usage: "deploy vaults and fund test accounts",
		Commands: []*cli.Command{
			{
				Name:  "deploy-strat-lend",
				Usage: "deploy a vault and its leveraged lending strategy",
				Flags: []cli.Flag{
					networkFlag,
					networksFlag,
					&cli.StringFlag{Name: "config", Usage: "yaml deployment config, defaults to the built-in Scream WBTC config"},
					&cli.StringFlag{Name: "root", Usage: "hardhat project directory", Value: "."},
					&cli.StringFlag{Name: "artifacts", Usage: "hardhat artifacts directory, defaults to <root>/artifacts"},
				},
				Action: deployStratLend,
			},
			{
				Name:  "fund-want",
				Usage: "swap native currency into a want token for an account",
				Flags: []cli.Flag{
					networkFlag,
					networksFlag,
					&cli.StringFlag{Name: "want", Usage: "want token address"},
					&cli.StringFlag{Name: "vault", Usage: "resolve the want token from this vault"},
					&cli.StringFlag{Name: "unirouter", Usage: "router address", Required: true},
					&cli.StringFlag{Name: "amount", Usage: "native amount in ether units", Value: "1"},
					&cli.StringFlag{Name: "recipient", Usage: "defaults to the account"},
					&cli.StringFlag{Name: "strategy", Usage: "unpause this strategy before funding"},
					&cli.StringFlag{Name: "keeper-env", Usage: "env var holding the keeper mnemonic, defaults to the account", Value: "keeper_words"},
				},
				Action: fundWant,
			},
		},
	}

	err := app.Run(os.Args)
	core.CloseConnections()
	if err != nil {
		fmt.Println(color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func loadNetworks(c *cli.Context) (core.Networks, error) {
	path := c.String(networksFlag.Name)
	if path == "" {
		return core.DefaultNetworks(), nil
	}
	config, err := core.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return config.Networks, nil
}

func loadClient(networks core.Networks, network string) (*core.Client, error) {
	rpc, err := networks.Resolve(network)
	if err != nil {
		return nil, err
	}
	account, err := core.LoadAccount(os.Getenv("words"))
	if err != nil {
		return nil, err
	}
	return core.NewClient(rpc, account), nil
}

// loadKeeper returns client signing as the keeper whose mnemonic is in env,
// or client itself when env is unset.
func loadKeeper(client *core.Client, env string) (*core.Client, error) {
	words := os.Getenv(env)
	if env == "" || words == "" {
		return client, nil
	}
	account, err := core.LoadAccount(words)
	if err != nil {
		return nil, errors.Wrap(err, "keeper")
	}
	return client.WithAccount(account), nil
}

// artifactsDir is artifacts, or the hardhat default under root when unset.
func artifactsDir(root, artifacts string) string {
	if artifacts != "" {
		return artifacts
	}
	return filepath.Join(root, "artifacts")
}

func deployStratLend(c *cli.Context) error {
	networks, err := loadNetworks(c)
	if err != nil {
		return err
	}
	network := c.String(networkFlag.Name)
	client, err := loadClient(networks, network)
	if err != nil {
		return err
	}

	config := deploy.DefaultStratLendConfig()
	if path := c.String("config"); path != "" {
		if config, err = deploy.LoadStratLendConfig(path); err != nil {
			return err
		}
	}

	root := c.String("root")
	artifacts := artifactsDir(root, c.String("artifacts"))

	fmt.Println(color.HiBlueString("account: %s", client.From()))
	orchestrator := &deploy.Orchestrator{
		Env: &deploy.HardhatEnv{
			Client:    client,
			Artifacts: core.Artifacts{Root: artifacts},
			Compiler:  core.HardhatCompiler{Dir: root},
		},
		Predictor: predict.New(),
		Networks:  networks,
	}
	_, err = orchestrator.Deploy(c.Context, network, config)
	return err
}

func fundWant(c *cli.Context) error {
	ctx := c.Context
	networks, err := loadNetworks(c)
	if err != nil {
		return err
	}
	network := c.String(networkFlag.Name)
	client, err := loadClient(networks, network)
	if err != nil {
		return err
	}

	nativeAddr, err := testhelpers.GetWrappedNativeAddr(network)
	if err != nil {
		return err
	}
	native := common.HexToAddress(nativeAddr)
	amount, err := core.ParseEther(c.String("amount"))
	if err != nil {
		return err
	}
	recipient := client.From()
	if r := c.String("recipient"); r != "" {
		recipient = common.HexToAddress(r)
	}

	helper := testhelpers.New(testhelpers.ChainContracts(client), testhelpers.ConsoleLogger())
	want, err := resolveWant(ctx, c, helper, client, native)
	if err != nil {
		return err
	}
	router, swapSignature, err := testhelpers.Unirouter(client, c.String("unirouter"))
	if err != nil {
		return err
	}

	display.Info("network %s rpc %s", network, client.RPC())
	balance, err := client.BalanceAt(ctx, client.From())
	if err != nil {
		return err
	}
	display.Info("account %s balance %s", client.From().Hex(), core.FormatEther(balance))

	if strategy := c.String("strategy"); strategy != "" {
		keeper, err := loadKeeper(client, c.String("keeper-env"))
		if err != nil {
			return err
		}
		strat := core.NewStrategyContract(client, common.HexToAddress(strategy))
		unpaused, err := testhelpers.UnpauseIfPaused(ctx, strat, strat.Connect(keeper))
		if err != nil {
			return err
		}
		if unpaused {
			display.Info("unpaused strategy %s", strategy)
		}
	}

	display.Section(fmt.Sprintf("Funding %s with %s of %s", recipient.Hex(), core.FormatEther(amount), want.Address().Hex()))
	outcome := helper.ZapNativeToToken(ctx, testhelpers.FundParams{
		Amount:          amount,
		Want:            want,
		NativeTokenAddr: native,
		Unirouter:       router,
		SwapSignature:   swapSignature,
		Recipient:       recipient,
	})
	if err := helper.LogTokenBalance(ctx, want, recipient); err != nil {
		return err
	}
	if outcome.Failed() {
		display.Fail("funding %s was incomplete", outcome.Want)
		return nil
	}
	display.Success("funded %s want", outcome.Want)
	return nil
}

func resolveWant(ctx context.Context, c *cli.Context, helper *testhelpers.Helper, client *core.Client, native common.Address) (testhelpers.Token, error) {
	if vault := c.String("vault"); vault != "" {
		return helper.GetVaultWant(ctx, core.NewVaultContract(client, common.HexToAddress(vault)), native)
	}
	want := c.String("want")
	if want == "" {
		return nil, errors.New("one of --want or --vault is required")
	}
	return testhelpers.ChainContracts(client).Token(common.HexToAddress(want)), nil
}
