// Copyright 2025 The Tasknest Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package system

import (
	"context"
	"errors"
	"fmt"

	"tasknest/models/db"
	"tasknest/modules/container"
	"tasknest/modules/optional"
	"tasknest/modules/timeutil"
	"tasknest/modules/util"
)

// SettingsID is the fixed id of the single settings row
const SettingsID = "default"

// Supported AI providers
const (
	AIProviderOpenAI    = "openai"
	AIProviderAnthropic = "anthropic"
	AIProviderOllama    = "ollama"
)

var aiProviders = container.SetOf(AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama)

// Settings is the application-wide settings singleton. Exactly one row
// exists, created lazily on first read.
type Settings struct {
	ID             string `xorm:"pk VARCHAR(32)"`
	AIProvider     string `xorm:"NOT NULL DEFAULT 'openai'"`
	AIModel        string
	AIAPIKey       string `xorm:"'ai_api_key'"` // gonic would fold the AIAPI run into one word
	AIBaseURL      string
	AIReportPrompt string             `xorm:"TEXT"`
	CreatedUnix    timeutil.TimeStamp `xorm:"created"`
	UpdatedUnix    timeutil.TimeStamp `xorm:"updated"`
}

func init() {
	db.RegisterModel(new(Settings))
}

// GetSettings returns the settings row, creating it with defaults on
// first use. Two callers racing on first use both get the same row: the
// loser's insert hits the primary key and re-reads the winner's row.
func GetSettings(ctx context.Context) (*Settings, error) {
	settings := &Settings{}
	has, err := db.GetEngine(ctx).ID(SettingsID).Get(settings)
	if err != nil {
		return nil, err
	}
	if has {
		return settings, nil
	}
	return createDefaultSettings(ctx)
}

func createDefaultSettings(ctx context.Context) (*Settings, error) {
	settings := &Settings{
		ID:         SettingsID,
		AIProvider: AIProviderOpenAI,
	}
	err := db.WithTx(ctx, func(ctx context.Context) error {
		return db.Insert(ctx, settings)
	})
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, util.ErrAlreadyExist) {
		return nil, err
	}

	// lost the first-create race, the winner's row is authoritative
	settings = &Settings{}
	if has, err := db.GetEngine(ctx).ID(SettingsID).Get(settings); err != nil {
		return nil, err
	} else if !has {
		return nil, fmt.Errorf("settings row %q vanished after insert conflict", SettingsID)
	}
	return settings, nil
}

// UpdateSettingsOptions are the changeable settings fields. Unset
// fields keep their stored value.
type UpdateSettingsOptions struct {
	AIProvider     optional.Option[string]
	AIModel        optional.Option[string]
	AIAPIKey       optional.Option[string]
	AIBaseURL      optional.Option[string]
	AIReportPrompt optional.Option[string]
}

// UpdateSettings applies a partial update to the settings row. The row
// is created first if it does not exist yet, there is never a second one.
func UpdateSettings(ctx context.Context, opts *UpdateSettingsOptions) (*Settings, error) {
	if opts.AIProvider.Has() && !aiProviders.Contains(opts.AIProvider.Value()) {
		return nil, util.NewInvalidArgumentErrorf("unsupported AI provider: %s", opts.AIProvider.Value())
	}

	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, 5)
	if opts.AIProvider.Has() {
		settings.AIProvider = opts.AIProvider.Value()
		cols = append(cols, "ai_provider")
	}
	if opts.AIModel.Has() {
		settings.AIModel = opts.AIModel.Value()
		cols = append(cols, "ai_model")
	}
	if opts.AIAPIKey.Has() {
		settings.AIAPIKey = opts.AIAPIKey.Value()
		cols = append(cols, "ai_api_key")
	}
	if opts.AIBaseURL.Has() {
		settings.AIBaseURL = opts.AIBaseURL.Value()
		cols = append(cols, "ai_base_url")
	}
	if opts.AIReportPrompt.Has() {
		settings.AIReportPrompt = opts.AIReportPrompt.Value()
		cols = append(cols, "ai_report_prompt")
	}
	if len(cols) == 0 {
		return settings, nil
	}

	err = db.WithTx(ctx, func(ctx context.Context) error {
		_, err := db.GetEngine(ctx).ID(settings.ID).Cols(cols...).Update(settings)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}
