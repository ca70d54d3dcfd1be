package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logger"
	authsvc "storefront/internal/service/auth"
)

type configFunc func(cmd *cobra.Command) config.Config

func createAdminCommand(cfgFn configFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Creates an ADMIN account, or promotes and resets the password of an existing one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := cfgFn(cmd)
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")

			ctx := context.Background()
			svc, cleanup := authService(ctx, cfg)
			defer cleanup()

			u, err := svc.EnsureAdmin(ctx, authsvc.RegisterInput{Email: email, Password: password, Name: name})
			if err != nil {
				return err
			}
			logger.Info(ctx, "admin ready", zap.String("user_id", u.ID), zap.String("email", u.Email))
			return nil
		},
	}
	cmd.Flags().String("email", "", "Admin email")
	cmd.Flags().String("password", "", "Admin password (8+ chars, upper, lower and digit)")
	cmd.Flags().String("name", "Administrator", "Display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func promoteCommand(cfgFn configFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Sets the role of an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := cfgFn(cmd)
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")

			ctx := context.Background()
			svc, cleanup := authService(ctx, cfg)
			defer cleanup()

			u, err := svc.SetRole(ctx, email, role)
			if err != nil {
				return err
			}
			logger.Info(ctx, "role updated", zap.String("email", u.Email), zap.String("role", u.Role))
			return nil
		},
	}
	cmd.Flags().String("email", "", "User email")
	cmd.Flags().String("role", domain.RoleAdmin, "Role to assign (USER or ADMIN)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func tokenCommand(cfgFn configFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Prints a signed bearer token for an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := cfgFn(cmd)
			email, _ := cmd.Flags().GetString("email")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			ctx := context.Background()
			svc, cleanup := authService(ctx, cfg)
			defer cleanup()

			token, err := svc.IssueToken(ctx, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("email", "", "User email")
	cmd.Flags().Duration("ttl", time.Hour, "Token TTL (e.g., 30m, 1h, 24h)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func purgeRevokedCommand(cfgFn configFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-revoked",
		Short: "Deletes revoked-token records whose tokens have expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := cfgFn(cmd)
			ctx := context.Background()
			svc, cleanup := authService(ctx, cfg)
			defer cleanup()

			n, err := svc.PurgeRevocations(ctx)
			if err != nil {
				return err
			}
			logger.Info(ctx, "revocations purged", zap.Int64("count", n))
			return nil
		},
	}
}
