package pagefeat_test

import (
	"testing"

	"github.com/fwojciec/pagefeat"
	"github.com/stretchr/testify/assert"
)

func TestReferences(t *testing.T) {
	t.Parallel()

	t.Run("collects description and quoted labels", func(t *testing.T) {
		t.Parallel()

		a := pagefeat.Action{
			Description: "Filter Dashboard Data by Date Range",
			Process:     "Click the input showing '12.04.2023 - 12.05.2024', pick dates, and click \"Apply\".",
		}

		refs := pagefeat.References(a)

		assert.Equal(t, []string{
			"Filter Dashboard Data by Date Range",
			"12.04.2023 - 12.05.2024",
			"Apply",
		}, refs)
	})

	t.Run("handles curly quotes", func(t *testing.T) {
		t.Parallel()

		a := pagefeat.Action{Description: "Log out", Process: "Click the “Log Out” button."}

		assert.Equal(t, []string{"Log out"}, pagefeat.References(a))
	})

	t.Run("ignores apostrophes inside words", func(t *testing.T) {
		t.Parallel()

		a := pagefeat.Action{Description: "Open profile", Process: "Click the user's avatar and choose 'Profile'."}

		assert.Equal(t, []string{"Open profile", "Profile"}, pagefeat.References(a))
	})

	t.Run("skips single character labels", func(t *testing.T) {
		t.Parallel()

		a := pagefeat.Action{Description: "Close the sidebar", Process: "Click the 'X' button."}

		assert.Equal(t, []string{"Close the sidebar"}, pagefeat.References(a))
	})
}

func TestMentions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		ref  string
		want bool
	}{
		{"label before control noun", "The Apply button is blue.", "Apply", true},
		{"label after control noun", "Use the tab Reports to switch.", "Reports", true},
		{"plural control noun", "The Day and Week tabs", "Week", true},
		{"multi-word label as written", "A Sign In button is shown.", "Sign In", true},
		{"multi-word label in other case", "Sign in to continue.", "Sign In", false},
		{"quoted label in any case", "Press 'apply' to save.", "Apply", true},
		{"quoted label in curly quotes", "The “Log Out” entry is last.", "Log Out", true},
		{"single word without control noun", "Apply the discount at checkout.", "Apply", false},
		{"common word lower case", "The next team meeting is on Friday.", "Next", false},
		{"common word at sentence start", "Next week the office is closed.", "Next", false},
		{"inside another word", "Applying filters is slow.", "Apply", false},
		{"later whole match", "Applying it uses the Apply button.", "Apply", true},
		{"absent", "The page title is Dashboard Overview.", "Sign In", false},
		{"empty ref", "anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, pagefeat.Mentions(tt.text, tt.ref))
		})
	}
}

func TestFeatures_WithoutOverlaps(t *testing.T) {
	t.Parallel()

	t.Run("drops info that mentions an action control", func(t *testing.T) {
		t.Parallel()

		f := pagefeat.Features{
			Actions: []pagefeat.Action{{
				Description: "Sign In",
				Process:     "enter email, enter password, click the 'Sign In' button",
			}},
			Info: []pagefeat.Info{
				{Description: "The page title is Dashboard Overview."},
				{Description: "A Sign In button is shown below the form."},
				{Description: "The current user is John Doe."},
			},
		}

		out, dropped := f.WithoutOverlaps()

		assert.Equal(t, f.Actions, out.Actions)
		assert.Equal(t, []pagefeat.Info{
			{Description: "The page title is Dashboard Overview."},
			{Description: "The current user is John Doe."},
		}, out.Info)
		assert.Equal(t, []pagefeat.Info{{Description: "A Sign In button is shown below the form."}}, dropped)
	})

	t.Run("keeps disjoint features intact", func(t *testing.T) {
		t.Parallel()

		f := pagefeat.Features{
			Actions: []pagefeat.Action{{Description: "Sign In", Process: "enter email, enter password, click Sign In"}},
			Info:    []pagefeat.Info{{Description: "The page title is Dashboard Overview."}},
		}

		out, dropped := f.WithoutOverlaps()

		assert.Equal(t, f, out)
		assert.Empty(t, dropped)
	})

	t.Run("leaves remaining info disjoint from every action reference", func(t *testing.T) {
		t.Parallel()

		f := pagefeat.Features{
			Actions: []pagefeat.Action{
				{Description: "Select Day view", Process: "Click the 'Day' button."},
				{Description: "Search the site", Process: "Type in the 'Search' field and press Enter."},
			},
			Info: []pagefeat.Info{
				{Description: "The Day button is highlighted."},
				{Description: "Typing into 'search' filters the list."},
				{Description: "Metrics are shown per Day."},
				{Description: "Total Users are 3.456, down 0.95%."},
			},
		}

		out, dropped := f.WithoutOverlaps()

		for _, a := range out.Actions {
			for _, ref := range pagefeat.References(a) {
				for _, info := range out.Info {
					assert.False(t, pagefeat.Mentions(info.Description, ref), "info %q mentions %q", info.Description, ref)
				}
			}
		}
		assert.Equal(t, []pagefeat.Info{
			{Description: "Metrics are shown per Day."},
			{Description: "Total Users are 3.456, down 0.95%."},
		}, out.Info)
		assert.Len(t, dropped, 2)
	})

	t.Run("keeps info that only shares a common word with a label", func(t *testing.T) {
		t.Parallel()

		f := pagefeat.Features{
			Actions: []pagefeat.Action{
				{Description: "Show more products", Process: "click the 'Next' button to see more products"},
				{Description: "Go home", Process: "click the 'Home' link"},
			},
			Info: []pagefeat.Info{
				{Description: "The next team meeting is scheduled for Friday at 10am."},
				{Description: "Next week the store opens at 9am."},
				{Description: "Free delivery to your home on orders over $50."},
			},
		}

		out, dropped := f.WithoutOverlaps()

		assert.Equal(t, f.Info, out.Info)
		assert.Empty(t, dropped)
	})

	t.Run("handles empty features", func(t *testing.T) {
		t.Parallel()

		out, dropped := pagefeat.Features{}.WithoutOverlaps()

		assert.Empty(t, out.Actions)
		assert.Empty(t, out.Info)
		assert.Empty(t, dropped)
	})
}
