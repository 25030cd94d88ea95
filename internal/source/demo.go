package source

import "github.com/rebeliceyang/cotable/internal/models"

type person struct {
	id        int
	firstName string
	lastName  string
	age       int
	city      string
}

var people = []person{
	{1, "Ahmet", "Yılmaz", 25, "İstanbul"},
	{2, "Mehmet", "Kaya", 30, "Ankara"},
	{3, "Ayşe", "Demir", 28, "İzmir"},
	{4, "Fatma", "Çelik", 35, "Bursa"},
	{5, "Ali", "Öz", 22, "Antalya"},
	{6, "Melisa", "Yılmaz", 25, "İstanbul"},
	{7, "Mert", "Kaya", 30, "Ankara"},
	{8, "Ece", "Demir", 28, "İzmir"},
	{9, "Ege", "Çelik", 35, "Bursa"},
	{10, "Alper", "Öz", 22, "Antalya"},
}

// Demo returns the built-in sample dataset
func Demo() *Dataset {
	rows := make([]models.Row, len(people))
	for i, p := range people {
		rows[i] = models.Row{
			"id":        p.id,
			"firstName": p.firstName,
			"lastName":  p.lastName,
			"age":       p.age,
			"city":      p.city,
		}
	}
	return &Dataset{
		Fields: []string{"id", "firstName", "lastName", "age", "city"},
		Rows:   rows,
	}
}

// DemoColumns returns the column set shown with the sample dataset
func DemoColumns() []models.Column {
	return []models.Column{
		{Accessor: "firstName", Header: "Ad"},
		{Accessor: "lastName", Header: "Soyad"},
		{Accessor: "age", Header: "Yaş", Filter: models.FilterNumberRange},
		{Accessor: "city", Header: "Şehir"},
	}
}
