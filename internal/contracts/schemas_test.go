package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "GiftItemImportedEvent/1.0.0", generateKeyFromPath("events/gift-item-imported/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("events/broken.json"))
	assert.Equal(t, "", generateKeyFromPath("events/gift-item-imported/latest.json"))
}

func TestGiftItemSchemaIsRegistered(t *testing.T) {
	assert.True(t, HasSchema("GiftItemImportedEvent", "1.0.0"))
	assert.False(t, HasSchema("GiftItemImportedEvent", "2.0.0"))
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "full item",
			body: `{"collection":"Plush Pepe","id":17,"name":"Plush Pepe #17","attributes":[{"trait_type":"Model","value":"A"},{"trait_type":"Rarity","value":3}]}`,
		},
		{
			name: "no optional fields",
			body: `{"collection":"Plush Pepe","id":1,"attributes":[]}`,
		},
		{
			name:    "missing id",
			body:    `{"collection":"Plush Pepe","attributes":[]}`,
			wantErr: true,
		},
		{
			name:    "collection without letters",
			body:    `{"collection":"#123","id":1,"attributes":[]}`,
			wantErr: true,
		},
		{
			name:    "attribute without trait type",
			body:    `{"collection":"Plush Pepe","id":1,"attributes":[{"value":"A"}]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `{"collection":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvent("GiftItemImportedEvent", "1.0.0", []byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEvent_UnknownSchema(t *testing.T) {
	err := ValidateEvent("SomethingElseEvent", "1.0.0", []byte(`{}`))
	assert.ErrorContains(t, err, "not found")
}
