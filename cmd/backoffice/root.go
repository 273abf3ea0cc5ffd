package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/config"
	"expense-backoffice/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Gider back-office araçları",
	Long: `Upstream gider API'si üzerinde çalışan komut satırı araçları.

Gerekli ortam değişkenleri:
  API_BASE_URL - upstream API adresi (varsayılan http://localhost:8000/api/v1)
  API_TOKEN    - upstream bearer token, ya da --email/--password ile giriş`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return logger.Setup(logger.Config{Level: level, Format: "console", Output: "stderr"})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("komut başarısız")
		fmt.Fprintf(os.Stderr, "Hata: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "log seviyesi (debug, info, warn, error)")
	rootCmd.PersistentFlags().Uint("business", 0, "işletme id")
	rootCmd.PersistentFlags().String("email", "", "upstream kullanıcı e-postası (API_TOKEN yoksa)")
	rootCmd.PersistentFlags().String("password", "", "upstream kullanıcı şifresi")
}

// upstream token'lı client ve işletme id'sini hazırlar. Token yoksa
// e-posta/şifre ile giriş yapılır.
func upstream(ctx context.Context, cmd *cobra.Command) (*apiclient.Client, uint, error) {
	cfg, err := config.LoadUpstream()
	if err != nil {
		return nil, 0, err
	}
	api := apiclient.New(cfg.BaseURL, cfg.Timeout)

	token := cfg.Token
	if token == "" {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if strings.TrimSpace(email) == "" || password == "" {
			return nil, 0, fmt.Errorf("API_TOKEN ya da --email/--password gerekli")
		}
		tokens, err := api.Login(ctx, apiclient.LoginInput{Email: email, Password: password})
		if err != nil {
			return nil, 0, fmt.Errorf("giriş yapılamadı: %w", err)
		}
		token = tokens.AccessToken
	}
	up := api.WithToken(token)

	businessID, _ := cmd.Flags().GetUint("business")
	if businessID == 0 {
		me, err := up.Me(ctx)
		if err != nil {
			return nil, 0, err
		}
		if me.BusinessID == nil {
			return nil, 0, fmt.Errorf("--business verilmeli")
		}
		businessID = *me.BusinessID
	}
	return up, businessID, nil
}
