package model

// Catalog returns the fixed set of bookable therapies.
func Catalog() []Therapy {
	return []Therapy{
		{Name: "Abhyanga", DurationMinutes: 60, Image: "/img/therapies/abhyanga.png"},
		{Name: "Shirodhara", DurationMinutes: 45, Image: "/img/therapies/shirodhara.png"},
		{Name: "Swedana", DurationMinutes: 30, Image: "/img/therapies/swedana.png"},
		{Name: "Nasya", DurationMinutes: 20, Image: "/img/therapies/nasya.png"},
		{Name: "Udvartana", DurationMinutes: 40, Image: "/img/therapies/udvartana.png"},
		{Name: "Kati Basti", DurationMinutes: 50, Image: "/img/therapies/kati-basti.png"},
	}
}

// TherapyByName looks a therapy up in the catalog.
func TherapyByName(name string) (Therapy, bool) {
	for _, t := range Catalog() {
		if t.Name == name {
			return t, true
		}
	}
	return Therapy{}, false
}

// Slots returns the fixed set of bookable time-slot labels.
func Slots() []string {
	return []string{
		"09:00 AM",
		"10:30 AM",
		"12:00 PM",
		"02:00 PM",
		"03:30 PM",
		"05:00 PM",
	}
}

// ValidSlot reports whether label is one of the fixed slot labels.
func ValidSlot(label string) bool {
	for _, s := range Slots() {
		if s == label {
			return true
		}
	}
	return false
}
