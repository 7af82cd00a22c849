package performance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/etnz/performance/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// A statement is a JSONL file, one line item per line. The "item" field tells
// the kind of line item, and "entity" the security or portfolio it belongs
// to:
//
//	{"entity":"ACME","item":"start","date":"2020-01-01","amount":10000,"currency":"EUR"}
//	{"entity":"ACME","item":"dividend","date":"2020-06-30","amount":48.71,"currency":"EUR","units":[{"type":"tax","amount":8.6,"currency":"EUR"}]}
//	{"entity":"ACME","item":"portfolio","type":"sell","date":"2021-03-15","amount":10500,"currency":"EUR"}
//	{"entity":"ACME","item":"end","date":"2021-03-15","amount":0,"currency":"EUR"}
//
// A dividend line is also the account transaction that paid it.

const (
	itemStart     = "start"
	itemEnd       = "end"
	itemDividend  = "dividend"
	itemAccount   = "account"
	itemPortfolio = "portfolio"
)

// amountCmd reads Money in two fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money { return M(a.Amount, a.Currency) }

func moneyJSON(m Money) amountCmd { return amountCmd{Amount: m.Decimal(), Currency: m.Currency()} }

type unitCmd struct {
	Type string `json:"type"`
	amountCmd
	ForexAmount   *decimal.Decimal `json:"forexAmount,omitempty"`
	ForexCurrency string           `json:"forexCurrency,omitempty"`
	Rate          *ExchangeRate    `json:"rate,omitempty"`
}

func (u unitCmd) Unit() (Unit, error) {
	typ, err := ParseUnitType(u.Type)
	if err != nil {
		return Unit{}, err
	}
	unit := Unit{Type: typ, Amount: u.Money()}
	if u.ForexAmount != nil {
		if u.ForexCurrency == "" {
			return Unit{}, fmt.Errorf("%v unit: forexAmount without forexCurrency", typ)
		}
		forex := M(*u.ForexAmount, u.ForexCurrency)
		unit.Forex = &forex
	}
	if u.Rate != nil {
		unit.Rate = *u.Rate
	}
	return unit, nil
}

type lineCmd struct {
	Entity string `json:"entity"`
	Item   string `json:"item"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	amountCmd
	Units []unitCmd `json:"units"`
}

func (l lineCmd) units() ([]Unit, error) {
	var units []Unit
	for _, u := range l.Units {
		unit, err := u.Unit()
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

// parseDateTime accepts a day like "2020-01-01" or an RFC 3339 time.
func parseDateTime(s string) (time.Time, error) {
	if d, err := date.Parse(s); err == nil {
		return d.Time(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want 2006-01-02 or RFC 3339", s)
	}
	return t, nil
}

func formatDateTime(t time.Time) string {
	if t.Equal(date.FromTime(t).Time()) {
		return date.FromTime(t).String()
	}
	return t.Format(time.RFC3339)
}

// LineItem returns the line item described by l.
func (l lineCmd) LineItem() (LineItem, error) {
	when, err := parseDateTime(l.Date)
	if err != nil {
		return nil, err
	}
	if err := ValidateCurrency(l.Currency); err != nil {
		return nil, err
	}
	units, err := l.units()
	if err != nil {
		return nil, err
	}

	switch l.Item {
	case itemStart:
		return ValuationAtStart{DateTime: when, Value: l.Money()}, nil
	case itemEnd:
		return ValuationAtEnd{DateTime: when, Value: l.Money()}, nil
	case itemDividend:
		return DividendPayment{
			DateTime:    when,
			Value:       l.Money(),
			Transaction: NewAccountTransaction(AccountDividends, when, l.Money(), units...),
		}, nil
	case itemAccount:
		typ, err := ParseAccountType(l.Type)
		if err != nil {
			return nil, err
		}
		return TransactionItem{NewAccountTransaction(typ, when, l.Money(), units...)}, nil
	case itemPortfolio:
		typ, err := ParsePortfolioType(l.Type)
		if err != nil {
			return nil, err
		}
		return TransactionItem{NewPortfolioTransaction(typ, when, l.Money(), units...)}, nil
	default:
		return nil, fmt.Errorf("unknown item %q", l.Item)
	}
}

// DecodeStatement reads a JSONL statement. Entities are returned in the order
// they first appear, and their items in line order.
func DecodeStatement(r io.Reader) ([]Entity, error) {
	var entities []Entity
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var l lineCmd
		if err := json.Unmarshal(lineBytes, &l); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", line, string(lineBytes), err)
		}
		if l.Entity == "" {
			return nil, fmt.Errorf("line %d: missing entity", line)
		}
		item, err := l.LineItem()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		i, ok := index[l.Entity]
		if !ok {
			i = len(entities)
			index[l.Entity] = i
			entities = append(entities, Entity{Name: l.Entity})
		}
		entities[i].Items = append(entities[i].Items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entities, nil
}

// EncodeLineItem writes item as a single statement line.
func EncodeLineItem(w io.Writer, entity string, item LineItem) error {
	var o jsonObjectWriter
	o.Append("entity", entity)

	var value Money
	var units []Unit
	switch item := item.(type) {
	case ValuationAtStart:
		o.Append("item", itemStart)
		value = item.Value
	case ValuationAtEnd:
		o.Append("item", itemEnd)
		value = item.Value
	case DividendPayment:
		if item.Transaction == nil {
			return fmt.Errorf("%w: dividend payment without transaction", ErrInvalidArgument)
		}
		o.Append("item", itemDividend)
		value, units = item.Value, item.Transaction.Units()
	case TransactionItem:
		switch tx := item.Transaction.(type) {
		case *AccountTransaction:
			if tx == nil {
				return fmt.Errorf("%w: nil account transaction", ErrInvalidArgument)
			}
			o.Append("item", itemAccount)
			o.Append("type", tx.Type.String())
		case *PortfolioTransaction:
			if tx == nil {
				return fmt.Errorf("%w: nil portfolio transaction", ErrInvalidArgument)
			}
			o.Append("item", itemPortfolio)
			o.Append("type", tx.Type.String())
		default:
			return fmt.Errorf("%w: transaction %T", ErrUnsupportedOperation, tx)
		}
		value, units = item.Transaction.Amount(), item.Transaction.Units()
	default:
		return fmt.Errorf("%w: line item %T", ErrUnsupportedOperation, item)
	}
	o.Append("date", formatDateTime(item.When()))
	o.Append("amount", value.Decimal())
	o.Append("currency", value.Currency())

	var list []json.RawMessage
	for _, u := range units {
		var uo jsonObjectWriter
		uo.Append("type", u.Type.String())
		uo.Append("amount", u.Amount.Decimal())
		uo.Append("currency", u.Amount.Currency())
		if u.Forex != nil {
			uo.PrefixFrom("forex", moneyJSON(*u.Forex))
		}
		if !u.Rate.IsZero() {
			uo.Append("rate", u.Rate)
		}
		b, err := uo.MarshalJSON()
		if err != nil {
			return err
		}
		list = append(list, b)
	}
	o.Optional("units", list)

	b, err := o.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// EncodeStatement writes all entities' items, entity by entity.
func EncodeStatement(w io.Writer, entities []Entity) error {
	for _, e := range entities {
		for _, item := range e.Items {
			if err := EncodeLineItem(w, e.Name, item); err != nil {
				return fmt.Errorf("%s: %w", e.Name, err)
			}
		}
	}
	return nil
}
