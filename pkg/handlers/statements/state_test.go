package statements

import (
	"net/url"
	"testing"

	"github.com/de-tools/fin-atlas/pkg/models/domain"
	svc "github.com/de-tools/fin-atlas/pkg/services/statements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeState_Defaults(t *testing.T) {
	state, err := decodeState(url.Values{}, 10)

	require.NoError(t, err)
	assert.Equal(t, svc.State{
		Sort: domain.SortConfig{Direction: domain.SortAsc},
		Page: domain.PageState{CurrentPage: 1, ItemsPerPage: 10},
	}, state)
}

func TestEncodeDecodeState(t *testing.T) {
	state := svc.State{
		Criteria: domain.FilterCriteria{
			StartYear:    "2020",
			EndYear:      "2022",
			MinNetIncome: "0",
			MaxNetIncome: "100000000000",
		},
		Sort:      domain.SortConfig{Key: domain.SortKeyNetIncome, Direction: domain.SortDesc},
		Page:      domain.PageState{CurrentPage: 3, ItemsPerPage: 20},
		PanelOpen: true,
	}

	decoded, err := decodeState(encodeState(state), 10)

	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestStateURL(t *testing.T) {
	assert.Equal(t, "/", stateURL("/", svc.State{}))
	assert.Equal(t, "/?size=5", stateURL("/", svc.State{Page: domain.PageState{CurrentPage: 1, ItemsPerPage: 5}}))
}
