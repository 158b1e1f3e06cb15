package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/govlock/internal/usecase"
)

// ChainRenderer renders devnet status and clock changes
type ChainRenderer struct {
	out io.Writer
}

// NewChainRenderer creates a new chain renderer
func NewChainRenderer(out io.Writer) *ChainRenderer {
	return &ChainRenderer{out: out}
}

// RenderInit renders a freshly deployed devnet
func (r *ChainRenderer) RenderInit(result *usecase.InitDevnetResult) error {
	fmt.Fprintln(r.out, FormatSuccess("Devnet deployed"))
	fmt.Fprintln(r.out, field("Deployer", addressStyle.Sprint(result.Addresses.Deployer.Hex())))
	fmt.Fprintln(r.out, field("NFT", addressStyle.Sprint(result.Addresses.NFT.Hex())))
	fmt.Fprintln(r.out, field("Timelock", addressStyle.Sprint(result.Addresses.Timelock.Hex())))
	fmt.Fprintln(r.out, field("Box", addressStyle.Sprint(result.Addresses.Box.Hex())))
	fmt.Fprintln(r.out, field("Governor", addressStyle.Sprint(result.Addresses.Governor.Hex())))
	fmt.Fprintf(r.out, "\n%d accounts funded · %d events · block %d\n", len(result.Funded), result.Events, result.Clock.Block)
	return nil
}

// RenderClock renders the devnet head after mining
func (r *ChainRenderer) RenderClock(clock *usecase.ChainClock) error {
	fmt.Fprintf(r.out, "⛏️  block %d %s\n", clock.Block, timestampStyle.Sprintf("(%s)", FormatUnix(clock.Timestamp)))
	return nil
}

// RenderMint renders minted voting tokens
func (r *ChainRenderer) RenderMint(result *usecase.MintVotesResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Minted %d token(s) to %s", len(result.TokenIDs), result.Account.Hex())))
	fmt.Fprintf(r.out, "   token ids %v · votes %s · block %d\n", result.TokenIDs, FormatInt(result.Votes), result.Clock.Block)
	return nil
}

// RenderStatus renders an overview of the devnet
func (r *ChainRenderer) RenderStatus(s *usecase.ChainStatusResult) error {
	sectionHeaderStyle.Fprintln(r.out, "Chain")
	fmt.Fprintln(r.out, field("Chain ID", s.ChainID))
	fmt.Fprintln(r.out, field("Block", s.Clock.Block))
	fmt.Fprintln(r.out, field("Time", fmt.Sprintf("%d %s", s.Clock.Timestamp, timestampStyle.Sprintf("(%s)", FormatUnix(s.Clock.Timestamp)))))

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintln(r.out, s.GovernorName)
	fmt.Fprintln(r.out, field("Address", addressStyle.Sprint(s.Addresses.Governor.Hex())))
	fmt.Fprintln(r.out, field("Delay", fmt.Sprintf("%d block(s)", s.Settings.VotingDelay)))
	fmt.Fprintln(r.out, field("Period", fmt.Sprintf("%d block(s)", s.Settings.VotingPeriod)))
	fmt.Fprintln(r.out, field("Threshold", FormatInt(s.Settings.ProposalThreshold)))
	fmt.Fprintln(r.out, field("Quorum", FormatInt(s.Quorum)))

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintln(r.out, "Timelock")
	fmt.Fprintln(r.out, field("Address", addressStyle.Sprint(s.Addresses.Timelock.Hex())))
	fmt.Fprintln(r.out, field("Min delay", fmt.Sprintf("%ds", s.MinDelay)))
	for _, p := range s.Proposers {
		fmt.Fprintln(r.out, field("Proposer", addressStyle.Sprint(p.Hex())))
	}
	for _, e := range s.Executors {
		fmt.Fprintln(r.out, field("Executor", addressStyle.Sprint(e.Hex())))
	}

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintln(r.out, "Box")
	fmt.Fprintln(r.out, field("Address", addressStyle.Sprint(s.Addresses.Box.Hex())))
	fmt.Fprintln(r.out, field("Owner", addressStyle.Sprint(s.BoxOwner.Hex())))
	fmt.Fprintln(r.out, field("Value", FormatInt(s.BoxValue)))

	if len(s.Holders) > 0 {
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintf(r.out, "Voting power (supply %s)\n", FormatInt(s.TotalSupply))
		t := newTable()
		t.AppendHeader(table.Row{"ACCOUNT", "ALIAS", "VOTES"})
		for _, h := range s.Holders {
			t.AppendRow(table.Row{addressStyle.Sprint(h.Account.Hex()), h.Alias, FormatInt(h.Votes)})
		}
		fmt.Fprintln(r.out, t.Render())
	}

	if len(s.Proposals) > 0 {
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintln(r.out, "Proposals")
		names := make([]string, 0, len(s.Proposals))
		for name := range s.Proposals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(r.out, field(titleCaser.String(name), s.Proposals[name]))
		}
	}
	return nil
}
