package models

// Category is an issue category shown in the report form.
type Category struct {
	ID   string `bson:"_id" json:"category_id"`
	Name string `bson:"name" json:"category_name"`
}

// Department is a unit that issues are routed to.
type Department struct {
	ID   string `bson:"_id" json:"department_id"`
	Name string `bson:"name" json:"department_name"`
}

// Location is where an issue was observed.
type Location struct {
	ID   string `bson:"_id" json:"location_id"`
	Name string `bson:"name" json:"location_name"`
}
