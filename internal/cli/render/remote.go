package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/govlock/internal/usecase"
)

// RemoteRenderer renders proposals read from a deployed Governor
type RemoteRenderer struct {
	out io.Writer
}

// NewRemoteRenderer creates a new remote renderer
func NewRemoteRenderer(out io.Writer) *RemoteRenderer {
	return &RemoteRenderer{out: out}
}

// RenderReport renders a remote proposal and the account's voting power
func (r *RemoteRenderer) RenderReport(report *usecase.RemoteReport) error {
	if report.Voter != nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Vote cast from %s", report.Voter.Hex())))
	}
	fmt.Fprintln(r.out, field("Chain ID", report.ChainID))
	fmt.Fprintln(r.out, field("Head", fmt.Sprintf("block %d %s", report.Head.Block, timestampStyle.Sprintf("(%s)", FormatUnix(report.Head.Timestamp)))))

	if p := report.Proposal; p != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, field("Proposal", hashStyle.Sprint(p.ID.Hex())))
		fmt.Fprintln(r.out, field("State", FormatState(p.State)))
		fmt.Fprintln(r.out, field("Voting", fmt.Sprintf("blocks %d → %d", p.Snapshot, p.Deadline)))
		fmt.Fprintln(r.out, field("Tally", fmt.Sprintf("%s  %s  %s",
			forStyle.Sprintf("for %s", FormatInt(p.For)),
			againstStyle.Sprintf("against %s", FormatInt(p.Against)),
			abstainStyle.Sprintf("abstain %s", FormatInt(p.Abstain)))))
		if p.Quorum != nil {
			fmt.Fprintln(r.out, field("Quorum", p.Quorum))
		}
	}

	if power := report.Power; power != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, field("Account", addressStyle.Sprint(power.Account.Hex())))
		fmt.Fprintln(r.out, field("Votes", fmt.Sprintf("%s of %s at block %d", FormatInt(power.Votes), FormatInt(power.Supply), power.Block)))
	}
	return nil
}
