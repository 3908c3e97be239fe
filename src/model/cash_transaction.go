package model

import "time"

// CashTransaction is an append-only ledger entry. Amounts are signed:
// inflows positive, outflows negative.
type CashTransaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	TransactionCode string    `gorm:"size:50;not null" json:"transaction_code"`
	Amount          float64   `gorm:"not null" json:"amount"`
	ActivityDate    time.Time `gorm:"index" json:"activity_date"`
	CreatedAt       time.Time `json:"created_at"`
}

const (
	TxCodeDeposit              = "DEPOSIT"
	TxCodeWithdrawal           = "WITHDRAWAL"
	TxCodeFee                  = "FEE"
	TxCodeInterest             = "INTEREST"
	TxCodeDividend             = "DIVIDEND"
	TxCodeStockBuy             = "STOCK_BUY"
	TxCodeStockSell            = "STOCK_SELL"
	TxCodeOptionBuy            = "OPTION_BUY"
	TxCodeOptionSell           = "OPTION_SELL"
	TxCodeCryptoBuy            = "CRYPTO_BUY"
	TxCodeCryptoSell           = "CRYPTO_SELL"
	TxCodeFuturesPL            = "FUTURES_PL"
	TxCodeFuturesMargin        = "FUTURES_MARGIN"
	TxCodeFuturesMarginRelease = "FUTURES_MARGIN_RELEASE"
)

// CountsTowardCashFlow reports whether the entry moves realized cash.
// Futures margin postings reserve and release collateral; they net to zero
// over a round trip and must stay out of net cash flow.
func (t *CashTransaction) CountsTowardCashFlow() bool {
	return t.TransactionCode != TxCodeFuturesMargin &&
		t.TransactionCode != TxCodeFuturesMarginRelease
}
