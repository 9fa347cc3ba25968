package parliament

import "time"

// The bills API has no sessions endpoint, so the session list is
// maintained by hand. Add a new entry (and close the previous one)
// when a new parliamentary session begins.
var knownSessions = []Session{
	{ID: 39, Name: "2024-2025", StartDate: mustDate("2024-07-17")},
	{ID: 38, Name: "2023-2024", StartDate: mustDate("2023-11-07"), EndDate: datePtr("2024-05-30")},
	{ID: 37, Name: "2022-2023", StartDate: mustDate("2022-05-10"), EndDate: datePtr("2023-10-26")},
}

func mustDate(s string) Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return Date{Time: t}
}

func datePtr(s string) *Date {
	d := mustDate(s)
	return &d
}
