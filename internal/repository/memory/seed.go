package memory

import (
	"fmt"
	"os"

	"vehicle-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AddPrincipal stores or replaces a principal.
func (s *Store) AddPrincipal(p domain.Principal) {
	_ = s.write(false, func(st *state) error {
		st.principals[p.ID] = p
		return nil
	})
}

// AddTransport stores or replaces a transport. A zero ID gets the next free
// one. The stored transport is returned.
func (s *Store) AddTransport(t domain.Transport) domain.Transport {
	_ = s.write(false, func(st *state) error {
		if t.ID == 0 {
			for id := range st.transports {
				t.ID = max(t.ID, id)
			}
			t.ID++
		}
		st.transports[t.ID] = t
		return nil
	})
	return t
}

type seedFile struct {
	Principals []struct {
		ID       int32  `yaml:"id"`
		IsAdmin  bool   `yaml:"is_admin"`
		Disabled bool   `yaml:"disabled"`
		Balance  string `yaml:"balance"`
	} `yaml:"principals"`
	Transports []struct {
		ID            int32   `yaml:"id"`
		OwnerID       int32   `yaml:"owner_id"`
		CanBeRented   *bool   `yaml:"can_be_rented"`
		TransportType string  `yaml:"transport_type"`
		Model         string  `yaml:"model"`
		Color         string  `yaml:"color"`
		Identifier    string  `yaml:"identifier"`
		Description   string  `yaml:"description"`
		Latitude      float64 `yaml:"latitude"`
		Longitude     float64 `yaml:"longitude"`
		MinutePrice   string  `yaml:"minute_price"`
		DayPrice      string  `yaml:"day_price"`
	} `yaml:"transports"`
}

// LoadSeedFile reads principals and transports from a YAML file into the
// store.
func (s *Store) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	return s.LoadSeed(data)
}

func (s *Store) LoadSeed(data []byte) error {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, p := range seed.Principals {
		balance, err := parseOptionalDecimal(p.Balance)
		if err != nil {
			return fmt.Errorf("principal %d balance: %w", p.ID, err)
		}
		s.AddPrincipal(domain.Principal{ID: p.ID, IsAdmin: p.IsAdmin, Disabled: p.Disabled, Balance: balance})
	}

	seen := make(map[string]int32)
	for _, t := range seed.Transports {
		tt, err := domain.ParseTransportType(t.TransportType)
		if err != nil {
			return fmt.Errorf("transport %q: %w", t.Identifier, err)
		}
		if other, dup := seen[t.Identifier]; dup {
			return fmt.Errorf("transport %q: identifier already used by transport %d", t.Identifier, other)
		}
		minutePrice, err := parseOptionalDecimal(t.MinutePrice)
		if err != nil {
			return fmt.Errorf("transport %q minute_price: %w", t.Identifier, err)
		}
		dayPrice, err := parseOptionalDecimal(t.DayPrice)
		if err != nil {
			return fmt.Errorf("transport %q day_price: %w", t.Identifier, err)
		}

		canBeRented := true
		if t.CanBeRented != nil {
			canBeRented = *t.CanBeRented
		}
		stored := s.AddTransport(domain.Transport{
			ID:            t.ID,
			OwnerID:       t.OwnerID,
			CanBeRented:   canBeRented,
			TransportType: tt,
			Model:         t.Model,
			Color:         t.Color,
			Identifier:    t.Identifier,
			Description:   t.Description,
			Latitude:      t.Latitude,
			Longitude:     t.Longitude,
			MinutePrice:   minutePrice,
			DayPrice:      dayPrice,
		})
		seen[t.Identifier] = stored.ID
	}
	return nil
}

func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
