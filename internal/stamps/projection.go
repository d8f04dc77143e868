package stamps

import (
	"github.com/JaimeStill/philatopia/pkg/query"
	"github.com/JaimeStill/philatopia/pkg/repository"
)

var projection = query.NewProjectionMap("public", "stamps", "s").
	Project("id", "Id").
	Project("owner", "Owner").
	Project("name", "Name").
	Project("description", "Description").
	Project("year_issued", "YearIssued").
	Project("country", "Country").
	Project("image", "Image").
	Project("created_at", "CreatedAt")

// Insertion order; id breaks created_at ties.
var defaultSort = []query.SortField{
	{Field: "CreatedAt"},
	{Field: "Id"},
}

const returning = `RETURNING id, owner, name, description, year_issued, country, image, created_at`

func scanStamp(s repository.Scanner) (Stamp, error) {
	var st Stamp
	err := s.Scan(
		&st.ID,
		&st.Owner,
		&st.Name,
		&st.Description,
		&st.YearIssued,
		&st.Country,
		&st.Image,
		&st.CreatedAt,
	)
	return st, err
}
