package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"travel-scraper/models"
	"travel-scraper/utils"
)

type handlers struct {
	svc    Services
	logger *utils.Logger
}

// fail writes the mapped error. Internal details stay in the log.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("[api] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	respondError(w, status, msg)
}

func (h *handlers) badBody(w http.ResponseWriter, err error) {
	respondError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
}

func (h *handlers) scrapeClassifieds(w http.ResponseWriter, r *http.Request) {
	var req models.ClassifiedScrapeRequest
	if err := decodeBody(r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	res, err := h.svc.Classifieds.Scrape(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *handlers) scrapeTrains(w http.ResponseWriter, r *http.Request) {
	var req models.RouteScrapeRequest
	if err := decodeBody(r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	res, err := h.svc.Trains.Scrape(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *handlers) scrapeFlights(w http.ResponseWriter, r *http.Request) {
	var req models.RouteScrapeRequest
	if err := decodeBody(r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	res, err := h.svc.Flights.Scrape(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *handlers) searchClassifieds(w http.ResponseWriter, r *http.Request) {
	var req models.ClassifiedSearchRequest
	if err := decodeBody(r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	res, err := h.svc.Classifieds.Search(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *handlers) searchTrains(w http.ResponseWriter, r *http.Request) {
	var req models.TrainSearchRequest
	if err := decodeBody(r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	res, err := h.svc.Trains.Search(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *handlers) searchFlights(w http.ResponseWriter, r *http.Request) {
	var req models.FlightSearchRequest
	if err := decodeBody(r, &req); err != nil {
		h.badBody(w, err)
		return
	}
	res, err := h.svc.Flights.Search(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *handlers) trainCities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Trains.Cities())
}

func (h *handlers) flightCities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Flights.Cities())
}

func (h *handlers) priceHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Classifieds.PriceHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *handlers) deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Classifieds.Deactivate(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "inactive"})
}
