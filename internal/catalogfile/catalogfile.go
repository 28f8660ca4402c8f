// Package catalogfile reads loyalty catalogs (currencies, tiers, levels) from YAML.
package catalogfile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"casino_loyalty/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type File struct {
	Currencies []Currency `yaml:"currencies"`
	Tiers      []Tier     `yaml:"tiers"`
}

type Currency struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type Tier struct {
	Name   string  `yaml:"name"`
	Icon   string  `yaml:"icon"`
	Order  int     `yaml:"order"`
	Levels []Level `yaml:"levels"`
}

type Level struct {
	Number          int      `yaml:"level"`
	XPThreshold     float64  `yaml:"xp"`
	FaucetInterval  int      `yaml:"faucet_interval_minutes"`
	WeeklyRakeback  string   `yaml:"weekly_rakeback_percent"`
	MonthlyRakeback string   `yaml:"monthly_rakeback_percent"`
	LevelUpBonus    []Reward `yaml:"level_up_bonus"`
	FaucetRewards   []Reward `yaml:"faucet_rewards"`
}

// Reward references a currency by code
type Reward struct {
	Currency string `yaml:"currency"`
	Amount   string `yaml:"amount"`
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and checks structure; unknown keys are rejected
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	codes := make(map[string]bool)
	for i, c := range f.Currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" {
			return fmt.Errorf("currencies[%d]: code is required", i)
		}
		if codes[code] {
			return fmt.Errorf("currencies[%d]: duplicate code %s", i, code)
		}
		codes[code] = true
	}

	orders := make(map[int]bool)
	for i, t := range f.Tiers {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("tiers[%d]: name is required", i)
		}
		if orders[t.Order] {
			return fmt.Errorf("tiers[%d]: duplicate order %d", i, t.Order)
		}
		orders[t.Order] = true

		numbers := make(map[int]bool)
		for j, l := range t.Levels {
			if numbers[l.Number] {
				return fmt.Errorf("tiers[%d].levels[%d]: duplicate level %d", i, j, l.Number)
			}
			numbers[l.Number] = true
			if l.XPThreshold < 0 {
				return fmt.Errorf("tiers[%d].levels[%d]: xp must be non-negative", i, j)
			}
		}
	}
	return nil
}

// Domain converts the file into catalog tiers, resolving currency codes through ids.
// Codes missing from ids are an error.
func (f *File) Domain(ids map[string]string) ([]domain.Tier, error) {
	tiers := make([]domain.Tier, 0, len(f.Tiers))
	for i, t := range f.Tiers {
		dt := domain.Tier{Name: strings.TrimSpace(t.Name), Icon: t.Icon, Order: t.Order}
		for j, l := range t.Levels {
			where := fmt.Sprintf("tiers[%d].levels[%d]", i, j)
			dl := domain.Level{
				LevelNumber:           l.Number,
				XPThreshold:           l.XPThreshold,
				FaucetIntervalMinutes: l.FaucetInterval,
			}
			var err error
			if dl.WeeklyRakebackPercent, err = percent(l.WeeklyRakeback); err != nil {
				return nil, fmt.Errorf("%s weekly_rakeback_percent: %w", where, err)
			}
			if dl.MonthlyRakebackPercent, err = percent(l.MonthlyRakeback); err != nil {
				return nil, fmt.Errorf("%s monthly_rakeback_percent: %w", where, err)
			}
			if dl.LevelUpBonus, err = rewards(l.LevelUpBonus, ids); err != nil {
				return nil, fmt.Errorf("%s level_up_bonus: %w", where, err)
			}
			if dl.FaucetRewards, err = rewards(l.FaucetRewards, ids); err != nil {
				return nil, fmt.Errorf("%s faucet_rewards: %w", where, err)
			}
			dt.Levels = append(dt.Levels, dl)
		}
		tiers = append(tiers, dt)
	}
	return tiers, nil
}

func percent(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

func rewards(in []Reward, ids map[string]string) ([]domain.Reward, error) {
	out := make([]domain.Reward, 0, len(in))
	for _, r := range in {
		code := strings.ToUpper(strings.TrimSpace(r.Currency))
		id, ok := ids[code]
		if !ok {
			return nil, fmt.Errorf("unknown currency %q", r.Currency)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", r.Amount, err)
		}
		out = append(out, domain.Reward{CurrencyID: id, Amount: amount})
	}
	return out, nil
}
