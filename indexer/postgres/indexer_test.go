package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableName(t *testing.T) {
	assert.Equal(t, "real_estate_properties", tableName("real-estate-properties"))
	assert.Equal(t, "listings", tableName("listings"))
	assert.Equal(t, "listings_v2", tableName("Listings.V2"))
}
