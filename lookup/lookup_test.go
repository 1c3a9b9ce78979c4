package lookup

import (
	"errors"
	"testing"

	"travel-scraper/models"
)

func TestResolveNormalizesInput(t *testing.T) {
	got, err := Resolve(KindStation, "  New   DELHI ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Code != "NDLS" || got.City != "New Delhi" {
		t.Errorf("Resolve(station, new delhi) = %+v; want NDLS/New Delhi", got)
	}

	air, err := Resolve(KindAirport, "Bengaluru")
	if err != nil {
		t.Fatalf("Resolve airport: %v", err)
	}
	if air.Code != "BLR" {
		t.Errorf("airport code = %q; want BLR", air.Code)
	}
}

func TestResolveNotFound(t *testing.T) {
	kinds := []Kind{KindStation, KindAirport, KindOLXLocation, KindOLXCategory}
	for _, k := range kinds {
		_, err := Resolve(k, "atlantis")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%s, atlantis) err = %v; want ErrNotFound", k, err)
		}
	}
}

func TestOLXTables(t *testing.T) {
	loc, ok := OLXLocation("delhi")
	if !ok || loc.Code != "2001152" {
		t.Errorf("OLXLocation(delhi) = %+v, %v", loc, ok)
	}
	cat, ok := OLXCategory("PG")
	if !ok || cat.ID != "1449" {
		t.Errorf("OLXCategory(PG) = %+v, %v", cat, ok)
	}
	if sub, ok := OLXSubtype("pg"); !ok || sub != "pg,roommate" {
		t.Errorf("OLXSubtype(pg) = %q, %v", sub, ok)
	}
}

func TestClassifyTrainType(t *testing.T) {
	tests := []struct {
		name string
		want models.TrainType
	}{
		{"Mumbai Rajdhani Express", models.TrainRajdhani},
		{"Bhopal Shatabdi", models.TrainShatabdi},
		{"Sealdah Duronto Exp", models.TrainDuronto},
		{"Vande Bharat Express", models.TrainVandeBharat},
		{"VANDEBHARAT", models.TrainVandeBharat},
		{"Garib Rath Express", models.TrainGaribRath},
		{"Humsafar Express", models.TrainHumsafar},
		{"Tejas Express", models.TrainTejas},
		{"Karnataka SF Express", models.TrainSuperfast},
		{"Punjab Mail", models.TrainExpress},
		{"Kota Jn Exp", models.TrainExpress},
		{"Agra Passenger", models.TrainPassenger},
		{"Transfer Special", models.TrainExpress},
		{"", models.TrainExpress},
		{"12345", models.TrainExpress},
	}

	for _, tt := range tests {
		if got := ClassifyTrainType(tt.name); got != tt.want {
			t.Errorf("ClassifyTrainType(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}

func TestAirlineByTextPrefersLongestName(t *testing.T) {
	a, ok := AirlineByText("Air India Express  IX 1234")
	if !ok || a.Code != "IX" {
		t.Errorf("AirlineByText = %+v, %v; want IX", a, ok)
	}
	a, ok = AirlineByText("IndiGo 6E-203")
	if !ok || a.Code != "6E" {
		t.Errorf("AirlineByText = %+v, %v; want 6E", a, ok)
	}
	if _, ok := AirlineByText("Lufthansa"); ok {
		t.Error("AirlineByText(Lufthansa) should miss")
	}
}
