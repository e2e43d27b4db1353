package universe

// Curated membership lists. These are static snapshots, not live index
// constituents; config can replace them without a rebuild.

var nasdaq100 = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "GOOG", "META", "TSLA", "AVGO",
	"COST", "NFLX", "AMD", "PEP", "ADBE", "CSCO", "TMUS", "INTC", "QCOM",
	"INTU", "TXN", "CMCSA", "AMGN", "HON", "AMAT", "BKNG", "PANW", "SBUX",
	"VRTX", "ADI", "GILD", "MU", "LRCX", "ADP", "MDLZ", "REGN", "KLAC",
	"SNPS", "CDNS", "MELI", "PYPL", "CRWD", "MAR", "CSX", "ORLY", "ABNB",
	"MRVL", "NXPI", "FTNT", "WDAY", "ROP", "PCAR", "MNST", "CPRT", "ODFL",
	"KDP", "DXCM", "FAST", "ROST", "KHC", "IDXX", "AZN", "CTAS", "CHTR",
	"PDD", "EA", "VRSK", "EXC", "XEL", "CCEP", "TEAM", "CSGP", "DDOG",
	"ZS", "ANSS", "TTD", "ON", "BKR", "GEHC", "FANG", "DLTR", "WBD",
	"BIIB", "ILMN", "MRNA", "WBA", "SIRI", "ENPH", "LULU", "CTSH", "MCHP",
}

var sp500 = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META", "BRK-B", "LLY", "TSLA",
	"AVGO", "JPM", "UNH", "V", "XOM", "MA", "JNJ", "PG", "HD", "COST",
	"MRK", "ABBV", "CVX", "CRM", "BAC", "NFLX", "AMD", "KO", "PEP", "TMO",
	"WMT", "ADBE", "LIN", "ACN", "MCD", "CSCO", "ABT", "ORCL", "WFC",
	"TXN", "DHR", "PM", "INTU", "DIS", "VZ", "AMGN", "CAT", "IBM", "GE",
	"NEE", "CMCSA", "PFE", "NOW", "SPGI", "UNP", "RTX", "COP", "GS",
	"T", "LOW", "HON", "INTC", "BA", "AXP", "UBER", "ELV", "QCOM", "BKNG",
	"MS", "AMAT", "SYK", "PLD", "BLK", "DE", "MDT", "TJX", "VRTX", "ISRG",
	"GILD", "LMT", "SCHW", "ADP", "C", "MMC", "CB", "REGN", "AMT", "BSX",
	"ADI", "CI", "MU", "SBUX", "FI", "SO", "MO", "ETN", "ZTS", "LRCX",
	"BMY", "EOG", "DUK", "NOC", "CME", "WM", "ICE", "KLAC", "SNPS",
}
