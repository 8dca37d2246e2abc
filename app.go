package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/newtglobalgit/dmap-saas-request/pkg/clients/github"
	"github.com/newtglobalgit/dmap-saas-request/pkg/clients/mailer"
	"github.com/newtglobalgit/dmap-saas-request/pkg/clients/twilio"
	"github.com/newtglobalgit/dmap-saas-request/pkg/config"
	"github.com/newtglobalgit/dmap-saas-request/pkg/logging"
	"github.com/newtglobalgit/dmap-saas-request/pkg/services"
)

type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	submission services.SubmissionService
}

// newApp loads configuration and wires the clients and services. Missing
// secrets fail here, before any request is served.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(appName, cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return nil, err
	}

	mailClient := mailer.NewClient(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Auth:     cfg.SMTPAuth,
		Username: cfg.SenderEmail,
		Password: cfg.SenderPassword,
		From:     cfg.SenderEmail,
		To:       cfg.AdminEmail,
		Timeout:  cfg.SMTPTimeout,
	}, logger.Named("mailer"))

	var smsClient twilio.Client
	if cfg.SMSEnabled() {
		smsClient = twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.SMSTimeout, logger.Named("twilio"))
	}

	githubClient, err := github.NewClient(github.Config{
		Token:          cfg.GitHubToken,
		Owner:          cfg.GitHubOwner,
		Repo:           cfg.GitHubRepo,
		BaseURL:        cfg.GitHubAPIURL,
		CallTimeout:    cfg.GitHubCallTimeout,
		CommitterName:  cfg.GitHubCommitterName,
		CommitterEmail: cfg.GitHubCommitterEmail,
	}, logger.Named("github"))
	if err != nil {
		return nil, fmt.Errorf("error creating GitHub client: %w", err)
	}

	notifier := services.NewNotifier(mailClient, smsClient, cfg.AdminPhone, logger.Named("notifier"))
	updater := services.NewRepositoryUpdater(githubClient, cfg.GitHubFilePath, cfg.GitHubBaseBranch, logger.Named("repository"))

	return &app{
		cfg:        cfg,
		logger:     logger,
		submission: services.NewSubmissionService(notifier, updater, logger.Named("submission")),
	}, nil
}
