package encounters

import (
	"caselink-service/internal/app/contracts"
	"caselink-service/internal/pkg/constvars"
	"caselink-service/internal/pkg/exceptions"
	"caselink-service/internal/pkg/fhir_dto"
	"caselink-service/internal/pkg/utils"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

type encounterFhirClient struct {
	baseUrl    string
	log        *zap.Logger
	httpClient *http.Client
}

func NewEncounterFhirClient(baseUrl string, logger *zap.Logger) contracts.EncounterFhirClient {
	return &encounterFhirClient{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		log:     logger,
		httpClient: &http.Client{
			Timeout: constvars.TimeoutFhirSearchSeconds * time.Second,
		},
	}
}

// FindEncountersByDateRange searches Encounter directly with a date-range
// filter on the configured date field, following pagination links until the
// server supplies no "next" link.
func (c *encounterFhirClient) FindEncountersByDateRange(ctx context.Context, token string, input *contracts.EncounterSearchInput) ([]fhir_dto.Encounter, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.log.Info("encounterFhirClient.FindEncountersByDateRange called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	dateField := input.DateField
	if dateField == "" {
		dateField = constvars.FhirSearchParamDate
	}

	params := url.Values{}
	if input.StartDate != "" {
		params.Add(dateField, constvars.FhirDatePrefixGreaterOrEqual+input.StartDate)
	}
	if input.EndDate != "" {
		params.Add(dateField, constvars.FhirDatePrefixLessOrEqual+input.EndDate)
	}
	if input.PatientID != "" {
		params.Set(constvars.FhirSearchParamPatient, input.PatientID)
	}
	if input.EncounterStatus != "" {
		params.Set(constvars.FhirSearchParamStatus, input.EncounterStatus)
	}

	searchURL := fmt.Sprintf("%s/%s?%s", c.baseUrl, constvars.ResourceEncounter, params.Encode())
	found := make(map[string]fhir_dto.Encounter)
	if err := c.collectEncounterPages(ctx, token, searchURL, found); err != nil {
		return nil, err
	}

	c.log.Info("encounterFhirClient.FindEncountersByDateRange succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEncounterCountKey, len(found)),
	)
	return encounterSetToSlice(found), nil
}

// FindEncountersByConditionCodes searches Encounter by condition-linked
// reason codes. When the server returns nothing, it falls back to searching
// Condition by the same codes and fetching each referenced Encounter by id.
func (c *encounterFhirClient) FindEncountersByConditionCodes(ctx context.Context, token string, input *contracts.EncounterSearchInput) ([]fhir_dto.Encounter, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.log.Info("encounterFhirClient.FindEncountersByConditionCodes called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	params := url.Values{}
	if len(input.Codes) > 0 {
		params.Set(constvars.FhirSearchParamReasonCode, strings.Join(input.Codes, ","))
	}

	searchURL := fmt.Sprintf("%s/%s?%s", c.baseUrl, constvars.ResourceEncounter, params.Encode())
	found := make(map[string]fhir_dto.Encounter)
	if err := c.collectEncounterPages(ctx, token, searchURL, found); err != nil {
		return nil, err
	}

	if len(found) == 0 {
		c.log.Info("encounterFhirClient.FindEncountersByConditionCodes no direct hits, falling back to Condition search",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		references, err := c.collectConditionEncounterRefs(ctx, token, input.Codes)
		if err != nil {
			return nil, err
		}
		c.resolveEncounterReferences(ctx, token, references, found)
	}

	c.log.Info("encounterFhirClient.FindEncountersByConditionCodes succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEncounterCountKey, len(found)),
	)
	return encounterSetToSlice(found), nil
}

// SearchEncountersByConditionPost issues a form-encoded POST search on
// Condition with inclusion directives and harvests any co-returned
// Encounters. References the inclusion missed are fetched directly; if the
// whole pass harvests nothing, the search is re-run without inclusion and
// every reference is resolved individually.
func (c *encounterFhirClient) SearchEncountersByConditionPost(ctx context.Context, token string, input *contracts.EncounterSearchInput) ([]fhir_dto.Encounter, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.log.Info("encounterFhirClient.SearchEncountersByConditionPost called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	form := url.Values{}
	if len(input.Codes) > 0 {
		form.Set(constvars.FhirSearchParamCode, strings.Join(input.Codes, ","))
	}
	form.Add(constvars.FhirSearchParamInclude, constvars.FhirIncludeConditionEncounter)
	if input.IncludeSubject {
		form.Add(constvars.FhirSearchParamInclude, constvars.FhirIncludeConditionSubject)
	}

	found := make(map[string]fhir_dto.Encounter)
	pendingRefs := make(map[string]struct{})

	bundle, err := c.postConditionSearch(ctx, token, form)
	if err != nil {
		return nil, err
	}
	for bundle != nil {
		c.harvestBundle(ctx, bundle, found, pendingRefs)
		next := bundle.NextLink()
		if next == "" {
			break
		}
		bundle, err = c.getBundle(ctx, token, next, constvars.ResourceCondition)
		if err != nil {
			return nil, err
		}
	}

	// Inclusion may have satisfied some references already.
	for id := range found {
		delete(pendingRefs, id)
	}
	c.resolveEncounterReferences(ctx, token, pendingRefs, found)

	if len(found) == 0 {
		c.log.Info("encounterFhirClient.SearchEncountersByConditionPost inclusion yielded nothing, re-running without _include",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		references, err := c.collectConditionEncounterRefs(ctx, token, input.Codes)
		if err != nil {
			return nil, err
		}
		c.resolveEncounterReferences(ctx, token, references, found)
	}

	c.log.Info("encounterFhirClient.SearchEncountersByConditionPost succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEncounterCountKey, len(found)),
	)
	return encounterSetToSlice(found), nil
}

// collectEncounterPages walks an Encounter searchset page chain, merging
// every Encounter entry into found, keyed and deduplicated by resource id.
func (c *encounterFhirClient) collectEncounterPages(ctx context.Context, token, searchURL string, found map[string]fhir_dto.Encounter) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	pageCount := 0
	next := searchURL
	for next != "" {
		bundle, err := c.getBundle(ctx, token, next, constvars.ResourceEncounter)
		if err != nil {
			return err
		}
		pageCount++
		c.harvestBundle(ctx, bundle, found, nil)
		next = bundle.NextLink()
	}
	c.log.Debug("encounterFhirClient pagination exhausted",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPageCountKey, pageCount),
	)
	return nil
}

// harvestBundle merges Encounter entries into found and, when pendingRefs is
// non-nil, records the encounter references of Condition entries so callers
// can resolve the ones inclusion did not satisfy.
func (c *encounterFhirClient) harvestBundle(ctx context.Context, bundle *fhir_dto.FHIRBundle, found map[string]fhir_dto.Encounter, pendingRefs map[string]struct{}) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	for _, entry := range bundle.Entry {
		if len(entry.Resource) == 0 {
			continue
		}
		var probe struct {
			ResourceType string `json:"resourceType"`
		}
		if err := json.Unmarshal(entry.Resource, &probe); err != nil {
			c.log.Warn("encounterFhirClient skipping undecodable bundle entry",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			continue
		}

		switch probe.ResourceType {
		case constvars.ResourceEncounter:
			var encounter fhir_dto.Encounter
			if err := json.Unmarshal(entry.Resource, &encounter); err != nil {
				c.log.Warn("encounterFhirClient skipping undecodable Encounter entry",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(err),
				)
				continue
			}
			if encounter.ID == "" {
				continue
			}
			if _, seen := found[encounter.ID]; !seen {
				found[encounter.ID] = encounter
			}
		case constvars.ResourceCondition:
			if pendingRefs == nil {
				continue
			}
			var condition fhir_dto.Condition
			if err := json.Unmarshal(entry.Resource, &condition); err != nil {
				c.log.Warn("encounterFhirClient skipping undecodable Condition entry",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(err),
				)
				continue
			}
			if condition.Encounter == nil {
				continue
			}
			if id := utils.ReferenceID(condition.Encounter.Reference, constvars.ResourceEncounter); id != "" {
				pendingRefs[id] = struct{}{}
			}
		}
	}
}

// collectConditionEncounterRefs searches Condition by code (GET, no
// inclusion) and returns the distinct set of referenced Encounter ids.
func (c *encounterFhirClient) collectConditionEncounterRefs(ctx context.Context, token string, codes []string) (map[string]struct{}, error) {
	params := url.Values{}
	if len(codes) > 0 {
		params.Set(constvars.FhirSearchParamCode, strings.Join(codes, ","))
	}
	searchURL := fmt.Sprintf("%s/%s?%s", c.baseUrl, constvars.ResourceCondition, params.Encode())

	references := make(map[string]struct{})
	next := searchURL
	for next != "" {
		bundle, err := c.getBundle(ctx, token, next, constvars.ResourceCondition)
		if err != nil {
			return nil, err
		}
		c.harvestBundle(ctx, bundle, map[string]fhir_dto.Encounter{}, references)
		next = bundle.NextLink()
	}
	return references, nil
}

// resolveEncounterReferences fetches each referenced Encounter by id, skipping
// ids already present in found. Individual fetch failures are logged and the
// reference dropped; partial results beat a failed run.
func (c *encounterFhirClient) resolveEncounterReferences(ctx context.Context, token string, references map[string]struct{}, found map[string]fhir_dto.Encounter) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	for id := range references {
		if _, seen := found[id]; seen {
			continue
		}
		encounter, err := c.fetchEncounterByID(ctx, token, id)
		if err != nil {
			c.log.Warn("encounterFhirClient.resolveEncounterReferences skipping unresolvable reference",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingReferenceKey, constvars.ResourceEncounter+"/"+id),
				zap.Error(err),
			)
			continue
		}
		found[encounter.ID] = *encounter
	}
}

func (c *encounterFhirClient) fetchEncounterByID(ctx context.Context, token, encounterID string) (*fhir_dto.Encounter, error) {
	fetchURL := fmt.Sprintf("%s/%s/%s", c.baseUrl, constvars.ResourceEncounter, encounterID)
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if utils.IsTimeoutError(err) {
			return nil, exceptions.ErrRequestTimeout(err, fetchURL)
		}
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, exceptions.ErrGetFHIRResource(fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)), constvars.ResourceEncounter)
	}

	encounter := new(fhir_dto.Encounter)
	if err := json.NewDecoder(resp.Body).Decode(encounter); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceEncounter)
	}
	return encounter, nil
}

// getBundle GETs a searchset page. resource names what is being searched, for
// error context only.
func (c *encounterFhirClient) getBundle(ctx context.Context, token, pageURL, resource string) (*fhir_dto.FHIRBundle, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, pageURL, nil)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if utils.IsTimeoutError(err) {
			return nil, exceptions.ErrRequestTimeout(err, pageURL)
		}
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	return c.decodeSearchsetResponse(resp, resource)
}

// postConditionSearch issues the form-encoded POST search on Condition.
func (c *encounterFhirClient) postConditionSearch(ctx context.Context, token string, form url.Values) (*fhir_dto.FHIRBundle, error) {
	searchURL := fmt.Sprintf("%s/%s/_search", c.baseUrl, constvars.ResourceCondition)
	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, searchURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if utils.IsTimeoutError(err) {
			return nil, exceptions.ErrRequestTimeout(err, searchURL)
		}
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	return c.decodeSearchsetResponse(resp, constvars.ResourceCondition)
}

func (c *encounterFhirClient) decodeSearchsetResponse(resp *http.Response, resource string) (*fhir_dto.FHIRBundle, error) {
	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, exceptions.ErrSearchFHIRResource(err, resource)
		}
		var outcome fhir_dto.OperationOutcome
		if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
			return nil, exceptions.ErrSearchFHIRResource(fmt.Errorf("%s", outcome.Issue[0].Diagnostics), resource)
		}
		return nil, exceptions.ErrSearchFHIRResource(fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)), resource)
	}

	bundle := new(fhir_dto.FHIRBundle)
	if err := json.NewDecoder(resp.Body).Decode(bundle); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resource)
	}
	return bundle, nil
}

func encounterSetToSlice(found map[string]fhir_dto.Encounter) []fhir_dto.Encounter {
	encounters := make([]fhir_dto.Encounter, 0, len(found))
	for _, encounter := range found {
		encounters = append(encounters, encounter)
	}
	return encounters
}
