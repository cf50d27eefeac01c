package market

import "strings"

// stablecoins map full pair symbols whose base is itself a quote-like asset.
var stablecoins = map[string]string{
	"USDCUSDT": "USDC", "USDCUSD": "USDC",
	"USDTUSDT": "USDT", "USDTUSD": "USDT",
	"BUSDUSDT": "BUSD", "BUSDUSD": "BUSD",
	"DAIUSDT": "DAI", "DAIUSD": "DAI",
	"TUSDUSDT": "TUSD", "TUSDUSD": "TUSD",
	"FDUSDUSDT": "FDUSD", "FDUSDUSD": "FDUSD",
}

// quoteSuffixes is ordered longest first so USDT wins over USD.
var quoteSuffixes = []string{"USDT", "BUSD", "USDC", "USD"}

var displayNames = map[string]string{
	"BTC": "Bitcoin", "ETH": "Ethereum", "BNB": "Binance Coin", "SOL": "Solana",
	"XRP": "XRP", "ADA": "Cardano", "AVAX": "Avalanche", "DOT": "Polkadot",
	"LINK": "Chainlink", "TRX": "TRON", "MATIC": "Polygon", "LTC": "Litecoin",
	"BCH": "Bitcoin Cash", "UNI": "Uniswap", "ATOM": "Cosmos", "NEAR": "NEAR Protocol",
	"FTM": "Fantom", "ALGO": "Algorand", "VET": "VeChain", "ICP": "Internet Computer",
	"FIL": "Filecoin", "HBAR": "Hedera", "EGLD": "MultiversX", "THETA": "Theta Network",
	"FLOW": "Flow", "MANA": "Decentraland", "SAND": "The Sandbox", "AXS": "Axie Infinity",
	"CHZ": "Chiliz", "ENJ": "Enjin", "GALA": "Gala", "ILV": "Illuvium",
	"SLP": "Smooth Love Potion", "APE": "ApeCoin", "GMT": "STEPN", "LRC": "Loopring",
	"IMX": "Immutable X", "OP": "Optimism", "ARB": "Arbitrum", "LDO": "Lido DAO",
	"RPL": "Rocket Pool", "FRAX": "Frax", "USDT": "Tether", "USDC": "USD Coin",
	"BUSD": "Binance USD", "DAI": "Dai", "TUSD": "TrueUSD", "FDUSD": "First Digital USD",
	"DOGE": "Dogecoin", "SHIB": "Shiba Inu", "PEPE": "Pepe", "FLOKI": "FLOKI",
	"BONK": "Bonk", "WIF": "dogwifhat", "AAVE": "Aave", "COMP": "Compound",
	"MKR": "Maker", "SNX": "Synthetix", "YFI": "Yearn Finance", "CRV": "Curve DAO Token",
	"SUSHI": "SushiSwap", "CRO": "Cronos", "KLAY": "Klaytn", "ONE": "Harmony",
	"LUNA": "Terra", "UST": "TerraUSD", "WBTC": "Wrapped Bitcoin", "WBNB": "Wrapped BNB",
	"WBETH": "Wrapped Beacon ETH", "PAXG": "PAX Gold", "ETC": "Ethereum Classic",
	"XLM": "Stellar",
}

// BaseSymbol strips the quote currency from a pair symbol, e.g. BTCUSDT -> BTC.
func BaseSymbol(full string) string {
	if base, ok := stablecoins[full]; ok {
		return base
	}
	for _, suffix := range quoteSuffixes {
		if len(full) > len(suffix) && strings.HasSuffix(full, suffix) {
			return strings.TrimSuffix(full, suffix)
		}
	}
	return full
}

// DisplayName returns the human name of a base symbol, or the symbol itself
// when it is not known.
func DisplayName(base string) string {
	if name, ok := displayNames[strings.ToUpper(base)]; ok {
		return name
	}
	return base
}
