package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// RunBillPayCheck looks up a loan the way the bill-pay provider's CHECK
// request does and prints the debtor identity and due amount
func RunBillPayCheck(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: collector check <loan-id>")
	}
	loanID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid loan id %q: %w", args[0], err)
	}

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	check, err := app.BillPay.Check(ctx, loanID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(check)
}

// RunBillPayPay records an online payment the way the provider's PAY request
// does and prints the receipt
func RunBillPayPay(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: collector pay <loan-id> <amount> <external-txn-id>")
	}
	loanID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid loan id %q: %w", args[0], err)
	}

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	receipt, err := app.BillPay.Pay(ctx, loanID, args[1], args[2])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(receipt)
}
