package extract

import "testing"

func TestIsBoilerplate_Rejects(t *testing.T) {
	snippets := []string{
		"Welcome to the Grace Hour podcast, we're glad you're here",
		"if you have a question about today's message, email us anytime",
		"visit us at gracechurch dot com for more",
		"to support this ministry, text GIVE to 77977",
		"don't forget to like and subscribe and turn on notifications",
		"reach out at office@example.org with prayer requests",
		"more resources at https://example.com/sermons",
	}
	for _, s := range snippets {
		if !IsBoilerplate(s) {
			t.Errorf("expected boilerplate: %q", s)
		}
	}
}

func TestIsBoilerplate_KeepsSermonContent(t *testing.T) {
	snippets := []string{
		"grace is not a reward for the righteous but a gift to the undeserving",
		"Paul writes in Romans 8 that nothing can separate us from the love of God",
		"we are called to forgive as we have been forgiven",
		"",
	}
	for _, s := range snippets {
		if IsBoilerplate(s) {
			t.Errorf("rejected sermon content: %q", s)
		}
	}
}
