package pulse

// PortfolioSummary holds the aggregate totals of the portfolio.
//
// Field names are the backend's identifiers and must not change.
type PortfolioSummary struct {
	ValorTotalAtual Money   `json:"ValorTotalAtual"` // current total value
	TotalInvestido  Money   `json:"TotalInvestido"`  // total invested
	LucroPrejuizo   Money   `json:"LucroPrejuizo"`   // profit or loss
	ROIPercentual   Percent `json:"ROI_Percentual"`  // return on investment
}

// AssetPosition is one held asset.
type AssetPosition struct {
	Ativo         string   `json:"Ativo"`      // symbol
	Quantidade    Quantity `json:"Quantidade"` // units held
	PrecoMedio    Money    `json:"PrecoMedio"` // average purchase price
	PrecoAtual    Money    `json:"PrecoAtual"` // current price
	ValorAtual    Money    `json:"ValorAtual"` // current value
	LucroPrejuizo Money    `json:"LucroPrejuizo"`
	ROIPercentual Percent  `json:"ROI_Percentual"`

	// DataAtt is the date of the last spreadsheet update, only sent by the
	// positions endpoint.
	DataAtt string `json:"DATA ATT,omitempty"`
}

// CategoryAllocation is the share of the portfolio held in one asset
// class ("Ações LP", "FII", "Cripto", ...).
type CategoryAllocation struct {
	Name   string  `json:"name"`
	Value  Percent `json:"value"`  // allocation
	Change Percent `json:"change"` // change over the period
}

// Snapshot is one complete summary and asset list as of a point in time.
// Categories is optional: backends without a breakdown omit it.
type Snapshot struct {
	Summary    *PortfolioSummary    `json:"summary"`
	Assets     []AssetPosition      `json:"asset_details"`
	Categories []CategoryAllocation `json:"categories,omitempty"`
}
