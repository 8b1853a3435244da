package endpoints

import (
	"strings"
	"testing"
)

func TestDefaultRegistryConsistency(t *testing.T) {
	reg := Default()
	if reg.Len() != 4 {
		t.Fatalf("expected 4 endpoints, got %d", reg.Len())
	}
	for key, ep := range reg.All() {
		if strings.TrimSpace(ep.BaseURL) == "" {
			t.Fatalf("endpoint %s has empty base url", key)
		}
		if ep.RequiresAuth != (ep.AuthType != "") {
			t.Fatalf("endpoint %s: requiresAuth=%v but authType=%q", key, ep.RequiresAuth, ep.AuthType)
		}
		if ep.AuthType == AuthAPIKey && ep.AuthHeader == "" {
			t.Fatalf("endpoint %s uses apiKey auth without a parameter name", key)
		}
		if ep.Key != key {
			t.Fatalf("endpoint key mismatch: map key %s, endpoint key %s", key, ep.Key)
		}
	}
}

func TestLookupKnownAndUnknown(t *testing.T) {
	reg := Default()

	ep, ok := reg.Lookup(OpenWeather)
	if !ok {
		t.Fatalf("expected openweather to be registered")
	}
	if ep.AuthHeader != "appid" || ep.DefaultParams["units"] != "metric" {
		t.Fatalf("unexpected openweather config: %+v", ep)
	}

	if _, ok := reg.Lookup("nosuch"); ok {
		t.Fatalf("expected unknown key to be absent")
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	reg := Default()
	ep, _ := reg.Lookup(OpenWeather)
	ep.DefaultParams["units"] = "imperial"

	again, _ := reg.Lookup(OpenWeather)
	if again.DefaultParams["units"] != "metric" {
		t.Fatalf("registry was mutated through a lookup result: %v", again.DefaultParams)
	}

	all := reg.All()
	delete(all, HTTPBin)
	if _, ok := reg.Lookup(HTTPBin); !ok {
		t.Fatalf("registry was mutated through All()")
	}
}

func TestKeysSorted(t *testing.T) {
	got := strings.Join(Default().Keys(), ",")
	want := "httpbin,jsonplaceholder,openweather,weatherapi"
	if got != want {
		t.Fatalf("keys = %s, want %s", got, want)
	}
}
