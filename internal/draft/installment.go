package draft

import "github.com/shopspring/decimal"

// ScheduledPayment is one month of an installment preview.
type ScheduledPayment struct {
	Month       int   `json:"month"`
	AmountCents int64 `json:"amountCents"`
}

// PreviewSchedule splits the financed amount (total minus initial payment)
// evenly across the plan's months, folding the cent remainder into the final
// month. Interest and real due-date arithmetic stay upstream; this is the
// terminal-side preview only.
func (in Installment) PreviewSchedule() ([]ScheduledPayment, error) {
	if in.TotalMonths <= 0 {
		return nil, ErrInvalidInstallment
	}
	if in.TotalCents < 0 || in.InitialPaymentCents < 0 || in.InitialPaymentCents > in.TotalCents {
		return nil, ErrInvalidInstallment
	}

	financed := decimal.NewFromInt(in.TotalCents - in.InitialPaymentCents)
	months := decimal.NewFromInt(int64(in.TotalMonths))
	monthly := financed.Div(months).Floor()
	last := financed.Sub(monthly.Mul(decimal.NewFromInt(int64(in.TotalMonths - 1))))

	schedule := make([]ScheduledPayment, in.TotalMonths)
	for m := 0; m < in.TotalMonths; m++ {
		amount := monthly
		if m == in.TotalMonths-1 {
			amount = last
		}
		schedule[m] = ScheduledPayment{Month: m + 1, AmountCents: amount.IntPart()}
	}
	return schedule, nil
}
