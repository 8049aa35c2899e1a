package postgres

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"catalog-service/internal/core/domain"
)

type attributeDTO struct {
	TraitType string      `json:"trait_type"`
	Value     interface{} `json:"value"`
}

// decodeAttributes разбирает JSONB колонки attributes. Часть старых выгрузок
// хранит массив как JSON-строку, такой payload раскрывается один раз, как и
// в условии фильтра attributesArrayExpr.
func decodeAttributes(raw []byte) ([]domain.Attribute, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("failed to unwrap attributes string: %w", err)
		}
		unwrapped := bytes.TrimSpace([]byte(inner))
		if len(unwrapped) == 0 || unwrapped[0] != '[' {
			return nil, fmt.Errorf("attributes string does not contain an array")
		}
		raw = unwrapped
	}

	var dtos []attributeDTO
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&dtos); err != nil {
		return nil, fmt.Errorf("attributes are not an array of trait/value pairs: %w", err)
	}

	attrs := make([]domain.Attribute, 0, len(dtos))
	for i, dto := range dtos {
		value, err := attributeValueString(dto.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %d (%s): %w", i, dto.TraitType, err)
		}
		attrs = append(attrs, domain.Attribute{TraitType: dto.TraitType, Value: value})
	}
	return attrs, nil
}

// attributeValueString текстовый вид value, совпадающий с value->>'...' в Postgres
func attributeValueString(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func encodeAttributes(attrs []domain.Attribute) ([]byte, error) {
	dtos := make([]attributeDTO, 0, len(attrs))
	for _, a := range attrs {
		dtos = append(dtos, attributeDTO{TraitType: a.TraitType, Value: a.Value})
	}
	return json.Marshal(dtos)
}
