// eoswallet serves the wallet HTTP API and runs the wallet workflows from the command line.
// Usage: go run ./cmd/eoswallet serve
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AlexZinkM/eos-wallet/internal/api"
	"github.com/AlexZinkM/eos-wallet/internal/app"
	"github.com/AlexZinkM/eos-wallet/internal/apperr"
	"github.com/AlexZinkM/eos-wallet/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "eoswallet",
		Short:         "EOS wallet with paid account activation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(); err != nil {
				return err
			}
			setupLogger(config.Get().LogLevel)
			return nil
		},
	}

	cmd.AddCommand(
		newServeCmd(),
		newLoginCmd(),
		newNewAccountCmd(),
		newBuyAccountCmd(),
		newBalanceCmd(),
		newTransferCmd(),
		newBTCLoginCmd(),
		newLogoutCmd(),
	)
	return cmd
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// withApp runs fn against a wired app and reports failures with the user-facing message
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) (any, error)) error {
	ctx := cmd.Context()
	a, err := app.New(ctx, config.Get())
	if err != nil {
		log.Error().Err(err).Msg("failed to start wallet")
		return err
	}
	defer a.Close()

	out, err := fn(ctx, a)
	if err != nil {
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, apperr.UserMessage(err))
		return err
	}
	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				log.Error().Err(err).Msg("failed to start wallet")
				return err
			}
			defer a.Close()

			srv := &http.Server{
				Addr:              ":" + config.GetPort(),
				Handler:           api.SetupRouter(a.Service, a.Rates, cfg.PriceCurrency),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("server started, swagger at /swagger/index.html")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newLoginCmd() *cobra.Command {
	var accountName string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				key, err := config.PromptSecret("Enter active private key: ")
				if err != nil {
					return nil, err
				}
				privateKey := strings.TrimSpace(string(key))
				clear(key)

				if err := a.Service.Register(ctx, accountName, privateKey); err != nil {
					return nil, err
				}
				balance, err := a.Service.GetBalance(ctx)
				if err != nil {
					log.Warn().Err(err).Msg("failed to refresh balance")
				}
				return map[string]any{"accountName": accountName, "balance": balance}, nil
			})
		},
	}

	cmd.Flags().StringVarP(&accountName, "account", "a", "", "Account name")
	cmd.MarkFlagRequired("account")
	return cmd
}

func newNewAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new-account",
		Short: "Generate a new account and log in with it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				resp, err := a.Service.LoginWithNewAccount(ctx)
				if err != nil {
					return nil, err
				}
				resp.QR = ""
				return resp, nil
			})
		},
	}
}

func newBuyAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy-account",
		Short: "Pay for and activate the stored account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				return a.Service.BuyAccount(ctx)
			})
		},
	}
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the balance of the stored account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				return a.Service.BalanceReport(ctx, a.Rates, config.Get().PriceCurrency)
			})
		},
	}
}

func newTransferCmd() *cobra.Command {
	var to, amount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send tokens from the stored account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				txID, err := a.Service.Transfer(ctx, to, amount)
				if err != nil {
					return nil, err
				}
				if txID == "" {
					return nil, apperr.New(apperr.KindNoSession, "not logged in")
				}
				return map[string]string{"txId": txID}, nil
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient account")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 1.5")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func newBTCLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "btc-login",
		Short: "Store the bitcoin key used to pay for activation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				key, err := config.PromptSecret("Enter bitcoin WIF private key: ")
				if err != nil {
					return nil, err
				}
				wif := strings.TrimSpace(string(key))
				clear(key)

				address, err := a.Service.LoginBitcoin(ctx, wif)
				if err != nil {
					return nil, err
				}
				return map[string]string{"address": address}, nil
			})
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored EOS credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) (any, error) {
				return nil, a.Service.Forget(ctx)
			})
		},
	}
}
