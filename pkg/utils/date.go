package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayouts são os formatos aceitos para datas vindas de arquivos CSV
var DateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate tenta interpretar a data com cada um dos layouts conhecidos
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("data vazia")
	}

	for _, layout := range DateLayouts {
		if date, err := time.Parse(layout, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("formato de data não reconhecido: %q", dateStr)
}
