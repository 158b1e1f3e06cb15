package render

import (
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// ProposalRenderer renders governance proposals and their transitions
type ProposalRenderer struct {
	out      io.Writer
	accounts map[string]string
}

// NewProposalRenderer creates a new proposal renderer. accounts maps
// aliases to addresses for display.
func NewProposalRenderer(out io.Writer, accounts map[string]string) *ProposalRenderer {
	return &ProposalRenderer{out: out, accounts: accounts}
}

// address renders an address with its alias when one is configured
func (r *ProposalRenderer) address(a common.Address) string {
	for name, hex := range r.accounts {
		if common.IsHexAddress(hex) && common.HexToAddress(hex) == a {
			return fmt.Sprintf("%s (%s)", addressStyle.Sprint(a.Hex()), name)
		}
	}
	return addressStyle.Sprint(a.Hex())
}

// RenderList renders proposals as a table
func (r *ProposalRenderer) RenderList(result *usecase.ProposalListResult) error {
	if len(result.Proposals) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"ID", "STATE", "FOR", "AGAINST", "ABSTAIN", "VOTING", "DESCRIPTION"})
	for _, p := range result.Proposals {
		t.AppendRow(table.Row{
			hashStyle.Sprint(ShortHash(p.ID)),
			FormatState(p.State),
			forStyle.Sprint(FormatInt(p.For)),
			againstStyle.Sprint(FormatInt(p.Against)),
			abstainStyle.Sprint(FormatInt(p.Abstain)),
			fmt.Sprintf("%d → %d", p.VoteStart, p.VoteEnd),
			FirstLine(p.Description, 50),
		})
	}
	fmt.Fprintln(r.out, t.Render())

	states := make([]models.ProposalState, 0, len(result.ByState))
	for s := range result.ByState {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	parts := make([]string, 0, len(states))
	for _, s := range states {
		parts = append(parts, fmt.Sprintf("%d %s", result.ByState[s], s))
	}
	fmt.Fprintf(r.out, "\n%s %s\n", timestampStyle.Sprintf("block %d ·", result.Clock.Block), strings.Join(parts, ", "))
	return nil
}

// RenderCreated renders a newly submitted proposal
func (r *ProposalRenderer) RenderCreated(p *usecase.ProposalSummary) error {
	fmt.Fprintln(r.out, FormatSuccess("Proposal created"))
	fmt.Fprintln(r.out, field("ID", hashStyle.Sprint(p.ID.Hex())))
	fmt.Fprintln(r.out, field("Decimal", new(big.Int).SetBytes(p.ID[:]).String()))
	fmt.Fprintln(r.out, field("Proposer", r.address(p.Proposer)))
	fmt.Fprintln(r.out, field("State", FormatState(p.State)))
	fmt.Fprintln(r.out, field("Voting", fmt.Sprintf("blocks %d → %d", p.VoteStart, p.VoteEnd)))
	return nil
}

// RenderDetails renders a single proposal with its votes and timelock operation
func (r *ProposalRenderer) RenderDetails(d *usecase.ProposalDetails) error {
	p := d.Proposal
	sectionHeaderStyle.Fprintln(r.out, FirstLine(p.Description, 80))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, field("ID", hashStyle.Sprint(p.ID.Hex())))
	fmt.Fprintln(r.out, field("State", FormatState(d.State)))
	fmt.Fprintln(r.out, field("Proposer", r.address(p.Proposer)))
	fmt.Fprintln(r.out, field("Created", fmt.Sprintf("block %d", p.CreatedBlock)))
	fmt.Fprintln(r.out, field("Voting", fmt.Sprintf("blocks %d → %d (head %d)", p.VoteStart, p.VoteEnd, d.Clock.Block)))

	quorum := "pending snapshot"
	if d.Quorum != nil {
		reached := new(big.Int)
		for _, v := range []*big.Int{p.ForVotes, p.AbstainVotes} {
			if v != nil {
				reached.Add(reached, v)
			}
		}
		quorum = fmt.Sprintf("%s / %s", reached, d.Quorum)
		if reached.Cmp(d.Quorum) >= 0 {
			quorum += forStyle.Sprint(" ✓")
		}
	}
	fmt.Fprintln(r.out, field("Quorum", quorum))
	fmt.Fprintln(r.out, field("Tally", fmt.Sprintf("%s  %s  %s",
		forStyle.Sprintf("for %s", FormatInt(p.ForVotes)),
		againstStyle.Sprintf("against %s", FormatInt(p.AgainstVotes)),
		abstainStyle.Sprintf("abstain %s", FormatInt(p.AbstainVotes)))))

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintln(r.out, "Actions")
	for i, target := range p.Targets {
		value := "0"
		if i < len(p.Values) && p.Values[i] != nil {
			value = p.Values[i].String()
		}
		data := "0x"
		if i < len(p.Calldatas) && len(p.Calldatas[i]) > 0 {
			data = p.Calldatas[i].String()
		}
		fmt.Fprintf(r.out, "  %d. %s value=%s data=%s\n", i+1, r.address(target), value, data)
	}

	if len(d.Votes) > 0 {
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintln(r.out, "Votes")
		t := newTable()
		t.AppendHeader(table.Row{"VOTER", "SUPPORT", "WEIGHT", "BLOCK", "REASON"})
		for _, v := range d.Votes {
			t.AppendRow(table.Row{r.address(v.Voter), supportStyle(v.Support).Sprint(v.Support), FormatInt(v.Weight), v.Block, v.Reason})
		}
		fmt.Fprintln(r.out, t.Render())
	}

	if d.Operation != nil {
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintln(r.out, "Timelock")
		fmt.Fprintln(r.out, field("Operation", hashStyle.Sprint(d.Operation.ID.Hex())))
		fmt.Fprintln(r.out, field("Status", d.OperationState))
		fmt.Fprintln(r.out, field("ETA", fmt.Sprintf("%d %s", p.ETA, timestampStyle.Sprintf("(%s)", FormatUnix(p.ETA)))))
		if d.OperationState == models.OperationWaiting && p.ETA > d.Clock.Timestamp {
			fmt.Fprintln(r.out, field("Remaining", fmt.Sprintf("%ds", p.ETA-d.Clock.Timestamp)))
		}
	}
	return nil
}

// RenderVote renders a cast vote
func (r *ProposalRenderer) RenderVote(v *usecase.VoteResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s voted %s with weight %s",
		r.address(v.Voter), supportStyle(v.Support).Sprint(v.Support), FormatInt(v.Weight))))
	fmt.Fprintf(r.out, "   proposal %s is %s at block %d\n", ShortHash(v.ProposalID), FormatState(v.State), v.Clock.Block)
	return nil
}

// RenderQueued renders a proposal handed to the timelock
func (r *ProposalRenderer) RenderQueued(q *usecase.QueueResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Proposal %s queued", ShortHash(q.ProposalID))))
	fmt.Fprintln(r.out, field("Operation", hashStyle.Sprint(q.OperationID.Hex())))
	fmt.Fprintln(r.out, field("ETA", fmt.Sprintf("%d %s", q.ETA, timestampStyle.Sprintf("(%s)", FormatUnix(q.ETA)))))
	if q.ETA > q.Clock.Timestamp {
		fmt.Fprintln(r.out, field("Remaining", fmt.Sprintf("%ds", q.ETA-q.Clock.Timestamp)))
	}
	return nil
}

// RenderTransition renders an executed or canceled proposal
func (r *ProposalRenderer) RenderTransition(verb string, t *usecase.TransitionResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Proposal %s %s", ShortHash(t.ProposalID), verb)))
	fmt.Fprintf(r.out, "   state %s at block %d %s\n", FormatState(t.State), t.Clock.Block, timestampStyle.Sprintf("(%s)", FormatUnix(t.Clock.Timestamp)))
	return nil
}

func supportStyle(v models.VoteType) *color.Color {
	switch v {
	case models.VoteFor:
		return forStyle
	case models.VoteAgainst:
		return againstStyle
	default:
		return abstainStyle
	}
}
