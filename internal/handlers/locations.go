package handlers

// serviceLocations lists the barangays of Bongao, Tawi-Tawi the service
// operates in. Matching is exact string equality against this closed set.
var serviceLocations = []string{
	"Bongao Poblacion",
	"Ipil",
	"Kamagong",
	"Karungdong",
	"Lagasan",
	"Lakit Lakit",
	"Lamion",
	"Lapid Lapid",
	"Lato Lato",
	"Luuk Pandan",
	"Luuk Tulay",
	"Malassa",
	"Mandulan",
	"Masantong",
	"Montay Montay",
	"Nalil",
	"Pababag",
	"Pag-asa",
	"Pagasinan",
	"Pagatpat",
	"Pahut",
	"Pakias",
	"Paniongan",
	"Pasiagan",
	"Sanga-sanga",
	"Silubog",
	"Simandagit",
	"Sumangat",
	"Tarawakan",
	"Tongsinah",
	"Tubig Basag",
	"Tubig Tanah",
	"Tubig-Boh",
	"Tubig-Mampallam",
	"Ungus-ungus",
}

func isValidLocation(location string) bool {
	for _, l := range serviceLocations {
		if l == location {
			return true
		}
	}
	return false
}
