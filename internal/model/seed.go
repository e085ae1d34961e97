package model

// 內建展示活動。沒有遠端紀錄也沒有參加者列表，
// date/time 為手寫 label，不參與遠端 reconcile。
var seedEvents = []Event{
	{
		ID:       "static-aurora-nights",
		Title:    "Aurora Nights Festival",
		Headline: "An open-air night of synthwave, indie bands and light installations by the river.",
		Category: CategoryMusic,
		Date:     "Friday, March 12",
		Time:     "18:00",
		Location: "Riverside Amphitheater",
		Mode:     ModeOnsite,
		Description: "An open-air night of synthwave, indie bands and light installations by the river. " +
			"Bring a blanket and stay for the closing drone show.",
		Image:      "https://images.unsplash.com/photo-1470229722913-7c0e2dbbafd3?auto=format&fit=crop&w=1200&q=80",
		IsFeatured: true,
		Source:     SourceStatic,
	},
	{
		ID:       "static-gopher-meetup",
		Title:    "City Gophers Meetup",
		Headline: "Monthly talks on backend engineering, live coding and pizza. Newcomers welcome.",
		Category: CategoryTech,
		Date:     "Tuesday, April 6",
		Time:     "19:30",
		Location: "Hub 47, 3rd floor",
		Mode:     ModeOnsite,
		Description: "Monthly talks on backend engineering, live coding and pizza. Newcomers welcome. " +
			"Two 25-minute talks plus lightning rounds.",
		Image:     "https://images.unsplash.com/photo-1515187029135-18ee286d815b?auto=format&fit=crop&w=1200&q=80",
		IsPopular: true,
		Source:    SourceStatic,
	},
	{
		ID:       "static-ink-and-paper",
		Title:    "Ink & Paper: Printmaking Workshop",
		Headline: "Hands-on linocut session for beginners. All materials provided, take your prints home.",
		Category: CategoryWorkshop,
		Date:     "Saturday, May 8",
		Time:     "10:00",
		Location: "Atelier Nord",
		Mode:     ModeOnsite,
		Description: "Hands-on linocut session for beginners. All materials provided, take your prints home. " +
			"Limited to twelve seats.",
		Image:  "https://images.unsplash.com/photo-1513364776144-60967b0f800f?auto=format&fit=crop&w=1200&q=80",
		Source: SourceStatic,
	},
	{
		ID:       "static-digital-canvas",
		Title:    "Digital Canvas Live",
		Headline: "Online showcase of generative art with Q&A from four resident artists.",
		Category: CategoryArt,
		Date:     "Sunday, June 20",
		Time:     "20:00",
		Location: "Online event",
		Mode:     ModeOnline,
		Description: "Online showcase of generative art with Q&A from four resident artists. " +
			"Stream link is shared with attendees an hour before start.",
		Image:     "https://images.unsplash.com/photo-1550745165-9bc0b252726f?auto=format&fit=crop&w=1200&q=80",
		IsPopular: true,
		Source:    SourceStatic,
	},
}

// SeedEvents 回傳種子活動的複本
func SeedEvents() []Event {
	out := make([]Event, len(seedEvents))
	copy(out, seedEvents)
	return out
}
