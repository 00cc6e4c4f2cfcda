package calculator

import "sort"

// settleEpsilon is the smallest amount worth a transfer; below it is floating point noise.
const settleEpsilon = 0.01

// Transfer is a suggested payment from one wallet to another.
type Transfer struct {
	From   string // Wallet that consumed more than it paid
	To     string // Wallet that paid more than it consumed
	Amount float64
}

// SuggestTransfers evens out who paid (cash flow) against who benefited
// (consumption).
//
// Algorithm:
//   - net = paid - consumed per wallet
//   - creditors (net > 0) and debtors (net < 0) are sorted by amount, largest first
//   - greedy matching: the largest debt settles against the largest credit until
//     one side is exhausted
func SuggestTransfers(cashFlow, consumption []Share) []Transfer {
	net := make(map[string]float64)
	var order []string
	record := func(id string, v float64) {
		if _, ok := net[id]; !ok {
			order = append(order, id)
		}
		net[id] += v
	}
	for _, s := range cashFlow {
		record(s.ID, s.Value)
	}
	for _, s := range consumption {
		record(s.ID, -s.Value)
	}

	type position struct {
		id     string
		amount float64
	}
	var creditors, debtors []position
	for _, id := range order {
		switch {
		case net[id] >= settleEpsilon:
			creditors = append(creditors, position{id, net[id]})
		case net[id] <= -settleEpsilon:
			debtors = append(debtors, position{id, -net[id]})
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		if amount >= settleEpsilon {
			transfers = append(transfers, Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: amount,
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount < settleEpsilon {
			i++
		}
		if creditors[j].amount < settleEpsilon {
			j++
		}
	}
	return transfers
}
