package models

// Debit/credit indicators used in exported rows.
const (
	TransactionTypeDebit  = "DBIT"
	TransactionTypeCredit = "CRDT"
)

// Balance kinds of a statement.
const (
	BalanceOpening          = "opening"
	BalanceClosing          = "closing"
	BalanceClosingAvailable = "closing_available"
	BalanceForwardAvailable = "forward_available"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
