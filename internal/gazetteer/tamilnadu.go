package gazetteer

import "flood-watch/internal/models"

// TamilNaduRegions returns the district table for Tamil Nadu.
func TamilNaduRegions() []models.Region {
	districts := []struct {
		name     string
		lat, lng float64
	}{
		{"Chennai", 13.0827, 80.2707},
		{"Coimbatore", 11.0168, 76.9558},
		{"Madurai", 9.9252, 78.1198},
		{"Tiruchirappalli", 10.7905, 78.7047},
		{"Salem", 11.6643, 78.146},
		{"Tirunelveli", 8.7139, 77.7567},
		{"Tiruppur", 11.1085, 77.3411},
		{"Erode", 11.341, 77.7172},
		{"Vellore", 12.9165, 79.1325},
		{"Thoothukkudi", 8.7642, 78.1348},
		{"Dindigul", 10.3624, 77.9695},
		{"Thanjavur", 10.787, 79.1378},
		{"Ranipet", 12.9277, 79.3193},
		{"Sivaganga", 9.8433, 78.4809},
		{"Kanyakumari", 8.0883, 77.5385},
		{"Namakkal", 11.2189, 78.1674},
		{"Karur", 10.9601, 78.0766},
		{"Tiruvarur", 10.7661, 79.6344},
		{"Nagapattinam", 10.7672, 79.8449},
		{"Krishnagiri", 12.5266, 78.2141},
		{"Cuddalore", 11.748, 79.7714},
		{"Dharmapuri", 12.121, 78.1582},
		{"Kanchipuram", 12.8185, 79.6947},
		{"Tiruvannamalai", 12.2253, 79.0747},
		{"Pudukkottai", 10.3833, 78.8001},
		{"Nilgiris", 11.4916, 76.7337},
		{"Ramanathapuram", 9.3639, 78.8395},
		{"Virudhunagar", 9.568, 77.9624},
		{"Ariyalur", 11.14, 79.0786},
		{"Perambalur", 11.2342, 78.8807},
		{"Kallakurichi", 11.7383, 78.9571},
		{"Tenkasi", 8.9598, 77.3161},
		{"Chengalpattu", 12.6819, 79.9888},
		{"Mayiladuthurai", 11.1014, 79.6583},
		{"Tirupattur", 12.495, 78.5686},
		{"Villupuram", 11.9401, 79.4861},
		{"Theni", 10.0104, 77.4768},
	}

	localities := map[string][]string{
		"Chennai":         {"Adyar", "Anna Nagar", "T. Nagar", "Mylapore", "Velachery", "Porur", "Tambaram", "Guindy"},
		"Coimbatore":      {"Peelamedu", "R.S. Puram", "Singanallur", "Saibaba Colony", "Ganapathy"},
		"Madurai":         {"Goripalayam", "Mattuthavani", "Tirupparankundram", "Anaiyur", "Vilangudi"},
		"Tiruchirappalli": {"Srirangam", "Thillai Nagar", "Woraiyur", "K.K. Nagar", "Ariyamangalam"},
		"Salem":           {"Hasthampatti", "Fairlands", "Alagapuram", "Kondalampatti", "Suramangalam"},
	}

	out := make([]models.Region, 0, len(districts))
	for _, d := range districts {
		out = append(out, models.Region{
			Name:        d.name,
			Coordinates: models.Point{Lat: d.lat, Lng: d.lng},
			Localities:  localities[d.name],
		})
	}
	return out
}

// TamilNadu returns a gazetteer loaded with TamilNaduRegions.
func TamilNadu() *Gazetteer {
	g, err := New(TamilNaduRegions())
	if err != nil {
		panic(err)
	}
	return g
}

// FloodProneArea is a known flood-risk location.
type FloodProneArea struct {
	Name        string
	District    string
	Coordinates models.Point
	Risk        models.Severity
}

// FloodProneAreas lists the monitored river basins and low-lying areas.
func FloodProneAreas() []FloodProneArea {
	return []FloodProneArea{
		{"Adyar River Basin", "Chennai", models.Point{Lat: 13.0067, Lng: 80.2565}, models.SeverityHigh},
		{"Cooum River Area", "Chennai", models.Point{Lat: 13.0756, Lng: 80.261}, models.SeverityCritical},
		{"Velachery", "Chennai", models.Point{Lat: 12.9815, Lng: 80.2176}, models.SeverityHigh},
		{"Mudichur", "Chennai", models.Point{Lat: 12.9107, Lng: 80.0689}, models.SeverityCritical},
		{"Vaigai River Basin", "Madurai", models.Point{Lat: 9.9252, Lng: 78.1198}, models.SeverityMedium},
		{"Cauvery River Delta", "Thanjavur", models.Point{Lat: 10.787, Lng: 79.1378}, models.SeverityHigh},
		{"Thamirabarani River", "Tirunelveli", models.Point{Lat: 8.7139, Lng: 77.7567}, models.SeverityMedium},
		{"Bhavani River", "Erode", models.Point{Lat: 11.341, Lng: 77.7172}, models.SeverityMedium},
		{"Palar River Basin", "Vellore", models.Point{Lat: 12.9165, Lng: 79.1325}, models.SeverityLow},
		{"Noyyal River", "Coimbatore", models.Point{Lat: 11.0168, Lng: 76.9558}, models.SeverityMedium},
	}
}
