package calculator

// WalletBalance is the balance of one wallet with the components that produced it.
type WalletBalance struct {
	WalletID    string
	Name        string
	Budget      float64 // Manually-set baseline
	ExchangedIn float64 // Funds received from exchanges
	Spent       float64 // Expenses charged to this wallet (own + shares)
	Received    float64 // Incomes credited to this wallet (own + shares)
	Balance     float64 // Budget + ExchangedIn - Spent + Received
}

// Balance computes the current balance of walletID. Unknown wallets have a
// balance of 0.
//
// Algorithm:
//   - Start from the wallet's budget
//   - Exchanges targeting the wallet add their full amount; exchanges targeting
//     every eligible wallet add amount/n when the wallet was eligible at the exchange date
//   - Non-shared transactions apply their signed amount to the payer only
//   - Shared transactions apply signed amount/n when the wallet was eligible at the
//     transaction date
//
// n is the number of wallets eligible at the event's own date, floored at 1, so a
// participant added mid-trip is never charged for earlier shared expenses.
func Balance(e Entities, walletID string) float64 {
	bal, ok := computeBalance(e, walletID)
	if !ok {
		return 0
	}
	return bal.Balance
}

// Balances computes the balance breakdown of every wallet, in wallet order.
func Balances(e Entities) []WalletBalance {
	wallets := e.Wallets()
	balances := make([]WalletBalance, 0, len(wallets))
	for _, w := range wallets {
		bal, _ := computeBalance(e, w.ID)
		balances = append(balances, bal)
	}
	return balances
}

// TotalBalance sums the balances of every wallet.
func TotalBalance(e Entities) float64 {
	total := 0.0
	for _, bal := range Balances(e) {
		total += bal.Balance
	}
	return total
}

func computeBalance(e Entities, walletID string) (WalletBalance, bool) {
	wallets := e.Wallets()
	wallet, ok := findWallet(wallets, walletID)
	if !ok {
		return WalletBalance{WalletID: walletID}, false
	}

	bal := WalletBalance{
		WalletID: wallet.ID,
		Name:     wallet.Name,
		Budget:   wallet.Budget,
	}

	for _, ex := range e.Exchanges() {
		if ex.Target.IsAllEligible() {
			if wallet.EligibleAt(ex.Date) {
				bal.ExchangedIn += ex.TargetAmount / shareDivisor(wallets, ex.Date)
			}
			continue
		}
		if id, _ := ex.Target.WalletID(); id == walletID {
			bal.ExchangedIn += ex.TargetAmount
		}
	}

	for _, tx := range e.Transactions() {
		var delta float64
		if tx.IsShared {
			if !wallet.EligibleAt(tx.Date) {
				continue
			}
			delta = tx.Signed() / shareDivisor(wallets, tx.Date)
		} else {
			if tx.Payer != walletID {
				continue
			}
			delta = tx.Signed()
		}

		if delta < 0 {
			bal.Spent -= delta
		} else {
			bal.Received += delta
		}
	}

	bal.Balance = bal.Budget + bal.ExchangedIn - bal.Spent + bal.Received
	return bal, true
}
