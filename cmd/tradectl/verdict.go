package main

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/wire"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	accent  = color.New(color.FgCyan, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printResult(w io.Writer, result domain.ValidationResult, asJSON bool) error {
	if asJSON {
		return printJSON(w, wire.FromResult(result))
	}
	if v, ok := result.Violation(); ok {
		printViolation(w, v)
		return nil
	}
	a, _ := result.Approval()
	success.Fprintln(w, "VALID")
	printApproval(w, a)
	return nil
}

func printRejection(w io.Writer, v domain.Violation, asJSON bool) error {
	if asJSON {
		return printJSON(w, wire.FromResult(domain.Reject(v)))
	}
	printViolation(w, v)
	return nil
}

func printRecord(w io.Writer, rec *domain.TradeRecord, asJSON bool) error {
	if asJSON {
		return printJSON(w, wire.FromTradeRecord(rec))
	}
	success.Fprintf(w, "EXECUTED %s\n", rec.TradeID)
	printApproval(w, rec.Approval)
	for _, e := range rec.Exceptions {
		accent.Fprintf(w, "  exception %s: %s to %s, expires %s\n",
			e.ID, domain.FormatDollars(e.Amount), e.TeamID, e.ExpiresAt.Format("2006-01-02"))
	}
	return nil
}

func printViolation(w io.Writer, v domain.Violation) {
	danger.Fprintf(w, "INVALID (%s)\n", v.Rule)
	neutral.Fprintf(w, "  %s\n", v.Reason)
	if v.Rule == domain.RuleSalaryMatch {
		neutral.Fprintf(w, "  incoming %s, limit %s, over by %s\n",
			domain.FormatDollars(v.Attempted), v.Limit, domain.FormatDecimalDollars(v.Overage()))
	}
}

func printApproval(w io.Writer, a domain.Approval) {
	neutral.Fprintf(w, "  team A sends %s, may take back %s\n", domain.FormatDollars(a.OutSalaryA), a.LimitA)
	neutral.Fprintf(w, "  team B sends %s, may take back %s\n", domain.FormatDollars(a.OutSalaryB), a.LimitB)
	if a.ExceptionA > 0 {
		accent.Fprintf(w, "  team A exception %s\n", domain.FormatDollars(a.ExceptionA))
	}
	if a.ExceptionB > 0 {
		accent.Fprintf(w, "  team B exception %s\n", domain.FormatDollars(a.ExceptionB))
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHistory(w io.Writer, teamID string, records []*domain.TradeRecord, asJSON bool) error {
	if asJSON {
		out := make([]wire.TradeRecord, len(records))
		for i, rec := range records {
			out[i] = wire.FromTradeRecord(rec)
		}
		return printJSON(w, out)
	}
	if len(records) == 0 {
		neutral.Fprintf(w, "%s has no trades\n", teamID)
		return nil
	}
	for _, rec := range records {
		counterparty := rec.Proposal.TeamBID
		if counterparty == teamID {
			counterparty = rec.Proposal.TeamAID
		}
		accent.Fprintf(w, "%s  %s  with %s\n", rec.ExecutedAt.Format("2006-01-02"), rec.TradeID, counterparty)
		for _, e := range rec.Exceptions {
			if e.TeamID == teamID {
				neutral.Fprintf(w, "  exception %s\n", domain.FormatDollars(e.Amount))
			}
		}
	}
	return nil
}
