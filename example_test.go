package presskit_test

import (
	"fmt"

	"github.com/lvillar/presskit"
)

func ExampleBuilder() {
	b := presskit.NewBuilder()
	if err := b.BeginDocument(); err != nil {
		fmt.Println(err)
		return
	}
	b.DrawTitle("Midnight Harbor")
	b.DrawSectionHeading("Film Summary:")
	b.DrawParagraph("A lighthouse keeper finds a map that leads back to her own childhood.")
	b.DrawRosterTable([]presskit.RosterEntry{
		{Role: "Director", Name: "Ana Ruiz"},
		{Role: "Lead Actor", Name: "Tom Hale"},
	})
	b.DrawHyperlinkLine("https://example.com/midnight-harbor")

	if _, err := b.Finalize(); err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range b.Placements() {
		fmt.Println(p.Kind, p.Lines)
	}
	// Output:
	// title [Midnight Harbor]
	// heading [Film Summary:]
	// paragraph [A lighthouse keeper finds a map that leads back to her own childhood.]
	// keyvalue [Director: Ana Ruiz]
	// keyvalue [Lead Actor: Tom Hale]
	// link [https://example.com/midnight-harbor]
}

func ExampleRenderRecord() {
	rec := presskit.Record{
		Title:  "Harbor Lights FC",
		Fields: []presskit.Field{{Label: "League", Value: "Coastal Division"}},
		Roster: []presskit.RosterEntry{{Role: "Coach", Name: "Alice"}, {Role: "Captain", Name: "Bob"}},
	}
	layout := presskit.Layout{Steps: []presskit.Step{
		{Kind: presskit.StepTitle},
		{Kind: presskit.StepFields, Heading: "Team Details:"},
		{Kind: presskit.StepRoster, Heading: "Roster:"},
	}}
	out, err := presskit.RenderRecord(rec, layout)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(out[:5]))
	// Output: %PDF-
}
