package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

const ThemeDarkKey = "theme_dark"

// Prefs holds user preferences that live only on the device.
type Prefs struct {
	repo metadata.Repository
}

func NewPrefs(repo metadata.Repository) *Prefs {
	return &Prefs{repo: repo}
}

// DarkTheme defaults to false when nothing is stored.
func (p *Prefs) DarkTheme(ctx context.Context) (bool, error) {
	raw, err := p.repo.Get(ctx, ThemeDarkKey)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	dark, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, nil
	}
	return dark, nil
}

func (p *Prefs) SetDarkTheme(ctx context.Context, dark bool) error {
	return p.repo.Set(ctx, ThemeDarkKey, []byte(strconv.FormatBool(dark)))
}

// ToggleTheme flips the preference and returns the new value.
func (p *Prefs) ToggleTheme(ctx context.Context) (bool, error) {
	dark, err := p.DarkTheme(ctx)
	if err != nil {
		return false, err
	}
	dark = !dark
	return dark, p.SetDarkTheme(ctx, dark)
}
