package doses

// Part agrupa las tomas por franja del día.
type Part string

const (
	PartMorning   Part = "morning"
	PartAfternoon Part = "afternoon"
	PartEvening   Part = "evening"
	PartNight     Part = "night"
)

type Section struct {
	Part  Part
	Doses []ResolvedDose
}

// PartOf: mañana 05-10h, tarde 11-16h, noche temprana 17-21h, noche 22-04h.
func PartOf(hour int) Part {
	switch {
	case hour >= 5 && hour <= 10:
		return PartMorning
	case hour >= 11 && hour <= 16:
		return PartAfternoon
	case hour >= 17 && hour <= 21:
		return PartEvening
	default:
		return PartNight
	}
}

// Sections reparte la lista en las cuatro franjas, conservando el orden de entrada.
// Siempre devuelve las cuatro, aunque estén vacías.
func Sections(list []ResolvedDose) []Section {
	out := []Section{
		{Part: PartMorning, Doses: []ResolvedDose{}},
		{Part: PartAfternoon, Doses: []ResolvedDose{}},
		{Part: PartEvening, Doses: []ResolvedDose{}},
		{Part: PartNight, Doses: []ResolvedDose{}},
	}
	pos := map[Part]int{PartMorning: 0, PartAfternoon: 1, PartEvening: 2, PartNight: 3}

	for _, d := range list {
		i := pos[PartOf(d.Hour)]
		out[i].Doses = append(out[i].Doses, d)
	}
	return out
}
