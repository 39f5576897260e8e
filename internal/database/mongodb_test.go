package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDatabaseName(t *testing.T) {
	require.Equal(t, "explicit", DatabaseName("mongodb://localhost:27017/fromuri", "explicit"))
	require.Equal(t, "fromuri", DatabaseName("mongodb://localhost:27017/fromuri?retryWrites=true", ""))
	require.Equal(t, DefaultDatabase, DatabaseName("mongodb://localhost:27017", ""))
	require.Equal(t, DefaultDatabase, DatabaseName("::not a uri::", ""))
}

func TestConnectMongo_InvalidURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "postgres://localhost:5432", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mongo connect")
}
