package quotes

import (
	"fmt"
	"strings"

	"portfoliodesk/src/model"
)

// BuildOptionSymbol renders the broker option symbol in OCC format:
// underlying, yymmdd expiration, C or P, strike times 1000 zero-padded to
// eight digits (e.g. AAPL240621C00190000). An option position missing
// strike, expiration or type cannot be priced live and returns an error;
// callers log it and fall back to stored values.
func BuildOptionSymbol(position model.Position) (string, error) {
	if position.AssetType != model.AssetTypeOption {
		return "", fmt.Errorf("position %d is not an option", position.ID)
	}
	if position.ExpirationDate == nil {
		return "", fmt.Errorf("option position %d has no expiration date", position.ID)
	}
	if position.StrikePrice == nil {
		return "", fmt.Errorf("option position %d has no strike price", position.ID)
	}
	if position.OptionType == nil {
		return "", fmt.Errorf("option position %d has no option type", position.ID)
	}

	var typeCode string
	switch strings.ToLower(*position.OptionType) {
	case model.OptionTypeCall:
		typeCode = "C"
	case model.OptionTypePut:
		typeCode = "P"
	default:
		return "", fmt.Errorf("option position %d has unknown option type %q", position.ID, *position.OptionType)
	}

	underlying := strings.ToUpper(strings.TrimSpace(position.Symbol))
	if underlying == "" {
		return "", fmt.Errorf("option position %d has no underlying symbol", position.ID)
	}

	strikeThousandths := int64(*position.StrikePrice*1000 + 0.5)
	if strikeThousandths <= 0 {
		return "", fmt.Errorf("option position %d has non-positive strike %v", position.ID, *position.StrikePrice)
	}

	return fmt.Sprintf("%s%s%s%08d",
		underlying,
		position.ExpirationDate.Format("060102"),
		typeCode,
		strikeThousandths,
	), nil
}
