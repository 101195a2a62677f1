package currency

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"jibajeti/internal/kv"
	"jibajeti/internal/log"
	"jibajeti/internal/state"
)

// displayFraction is fixed for every currency, including those whose
// ISO minor unit is zero.
const displayFraction = 2

// maxCents is the largest amount, in cents, the money formatter can take.
var maxCents = decimal.NewFromInt(math.MaxInt64)

// Service formats amounts in the active currency. The active code is a
// persisted cell so the choice survives restarts.
type Service struct {
	cell   *state.Cell[Code]
	logger *log.Logger
}

// NewService binds the service to the currency key of store.
func NewService(ctx context.Context, store kv.Store, logger *log.Logger) *Service {
	logger = log.OrDiscard(logger).WithComponent(log.ComponentCurrency)
	return &Service{
		cell: state.New(ctx, store, kv.KeyCurrency, Base,
			state.WithDecoder[Code](decodeCode),
			state.WithValidator[Code](validateCode),
			state.WithLogger[Code](logger),
		),
		logger: logger,
	}
}

// Currency returns the active code.
func (s *Service) Currency() Code { return s.cell.Get() }

// Config returns the table entry of the active code.
func (s *Service) Config() Config {
	cfg, _ := Lookup(s.cell.Get())
	return cfg
}

// SetCurrency switches the active currency. Codes outside the supported set
// are rejected with ErrUnsupported and leave the state unchanged.
func (s *Service) SetCurrency(ctx context.Context, code string) error {
	c, err := Parse(code)
	if err != nil {
		s.logger.DebugContext(ctx, "Rejected currency change", log.FieldCurrency, code)
		return err
	}
	return s.cell.Set(ctx, c)
}

// Format renders the absolute value of amount with the active symbol, two
// fractional digits and group separators. Signs are the caller's business.
func (s *Service) Format(amount float64) string {
	return FormatIn(s.Config(), amount)
}

// Symbol returns the active currency symbol.
func (s *Service) Symbol() string {
	return s.Config().Symbol
}

// Reload re-reads the stored choice.
func (s *Service) Reload(ctx context.Context) {
	s.cell.Reload(ctx)
}

// FormatIn renders amount using cfg. Rounding is half away from zero on the
// decimal representation of amount. NaN renders as symbol+"NaN" and both
// infinities as symbol+"∞".
func FormatIn(cfg Config, amount float64) string {
	switch {
	case math.IsNaN(amount):
		return cfg.Symbol + "NaN"
	case math.IsInf(amount, 0):
		return cfg.Symbol + "∞"
	}

	d := decimal.NewFromFloat(amount).Abs().Round(displayFraction)
	cents := d.Shift(displayFraction)
	if cents.LessThanOrEqual(maxCents) {
		return money.NewFormatter(displayFraction, cfg.Decimal, cfg.Group, cfg.Symbol, "$1").Format(cents.IntPart())
	}
	return cfg.Symbol + formatLarge(cfg, d)
}

// formatLarge groups amounts past the int64 range of cents.
func formatLarge(cfg Config, d decimal.Decimal) string {
	fixed := d.StringFixed(displayFraction)
	frac := fixed[len(fixed)-displayFraction:]
	whole := humanize.BigComma(d.BigInt())
	if cfg.Group != "," {
		whole = strings.ReplaceAll(whole, ",", cfg.Group)
	}
	return whole + cfg.Decimal + frac
}

// decodeCode accepts JSON strings and the bare codes older builds stored
// without quoting.
func decodeCode(raw string) (Code, error) {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		s = strings.TrimSpace(raw)
	}
	return Code(s), nil
}

func validateCode(c Code) error {
	_, err := Parse(string(c))
	return err
}
