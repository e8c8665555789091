package domain

// GroupTotal é uma linha de uma agregação: a chave do grupo e a soma das vendas
type GroupTotal struct {
	Key   string  `json:"key"`
	Sales float64 `json:"sales"`
}

// KPIs reúne as métricas escalares do topo do painel
type KPIs struct {
	TotalSales    float64 `json:"total_sales"`
	OrdersCount   int     `json:"orders_count"`
	AverageProfit float64 `json:"average_profit"`
	HasData       bool    `json:"has_data"`
}

// SumSales soma as vendas de todos os grupos
func SumSales(groups []GroupTotal) float64 {
	var total float64
	for _, g := range groups {
		total += g.Sales
	}
	return total
}

// Keys retorna as chaves na ordem em que aparecem
func Keys(groups []GroupTotal) []string {
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}
