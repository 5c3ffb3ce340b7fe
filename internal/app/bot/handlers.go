package bot

import (
	"context"
	stderrors "errors"
	"math"
	"strings"

	"golang.org/x/text/language"

	"plantid-bot-go/internal/domain/eventbus"
	"plantid-bot-go/internal/domain/plantid"
	"plantid-bot-go/internal/domain/report"
	"plantid-bot-go/internal/domain/session"
)

func (s *Service) handleLanguage(ctx context.Context, u Update, lang string) Reply {
	choice := strings.TrimSpace(u.Text)
	if choice == "" || choice == buttonLanguage {
		return s.text(ctx, lang, KeyboardLanguage, msgChooseLanguage)
	}

	code, ok := s.matchLanguage(choice)
	if !ok {
		return s.text(ctx, lang, KeyboardLanguage, msgUnknownLanguage)
	}
	if err := s.sessions.SetLanguage(ctx, u.UserID, code); err != nil {
		return s.text(ctx, lang, KeyboardMain, msgStorageError)
	}
	s.emit(eventbus.EventLanguageChanged, u.UserID, eventbus.LanguageChangedData{Language: code})
	return s.text(ctx, code, KeyboardMain, msgLanguageChanged)
}

// matchLanguage maps a callback payload like "en" or "en-US" onto a
// configured language code.
func (s *Service) matchLanguage(choice string) (string, bool) {
	tag, err := language.Parse(choice)
	if err != nil {
		return "", false
	}
	_, idx, conf := s.matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return s.languages[idx], true
}

func (s *Service) handlePhoto(ctx context.Context, u Update, lang string) Reply {
	upload, err := s.images.ProcessBase64(ctx, u.Photo)
	if err != nil {
		s.logger.Warn("rejected photo from %s: %v", u.UserID, err)
		return s.text(ctx, lang, KeyboardMain, msgBadImage)
	}
	if err := s.sessions.SetLastImage(ctx, u.UserID, upload.Base64); err != nil {
		return s.text(ctx, lang, KeyboardMain, msgStorageError)
	}

	id, err := s.plantID.Identify(ctx, s.request(ctx, u.UserID, upload.Base64, lang))
	if err != nil {
		s.logger.Error("identification for %s failed: %v", u.UserID, err)
		return s.text(ctx, lang, KeyboardMain, msgRecognitionError)
	}

	summary := s.reports.IdentificationSummary(ctx, id, lang, s.names)
	data := eventbus.PlantIdentifiedData{Identified: summary.Identified}
	if top, ok := id.Top(); ok {
		data.LatinName = top.Name
		data.Probability = top.Probability
	}
	if summary.Identified {
		if err := s.sessions.SetIdentification(ctx, u.UserID, id.AccessToken, summary.PlantName); err != nil {
			s.logger.Warn("identification token for %s not stored: %v", u.UserID, err)
		}
		data.AccessToken = id.AccessToken
		data.PlantName = summary.PlantName
	}
	s.emit(eventbus.EventPlantIdentified, u.UserID, data)
	return Reply{Messages: []string{summary.Text}, Keyboard: KeyboardMain}
}

func (s *Service) handleDetails(ctx context.Context, u Update, lang string) Reply {
	sess, err := s.sessions.Get(ctx, u.UserID)
	if err != nil {
		return s.text(ctx, lang, KeyboardMain, msgStorageError)
	}
	if sess.IdentificationToken == "" {
		return s.text(ctx, lang, KeyboardMain, msgSendPhotoFirst)
	}
	id, err := s.plantID.Details(ctx, sess.IdentificationToken, lang)
	if err != nil {
		s.logger.Error("details for %s failed: %v", u.UserID, err)
		return s.text(ctx, lang, KeyboardMain, msgRecognitionError)
	}
	return Reply{Messages: []string{s.reports.DetailReport(ctx, id, lang)}, Keyboard: KeyboardMain}
}

func (s *Service) handleSimilar(ctx context.Context, u Update, lang string) Reply {
	sess, err := s.sessions.Get(ctx, u.UserID)
	if err != nil {
		return s.text(ctx, lang, KeyboardMain, msgStorageError)
	}
	if sess.IdentificationToken == "" {
		return s.text(ctx, lang, KeyboardMain, msgSendPhotoFirst)
	}
	id, err := s.plantID.Details(ctx, sess.IdentificationToken, lang)
	if err != nil {
		s.logger.Error("similar images for %s failed: %v", u.UserID, err)
		return s.text(ctx, lang, KeyboardMain, msgRecognitionError)
	}
	top, ok := id.Top()
	if !ok {
		return s.text(ctx, lang, KeyboardMain, msgNoInfo)
	}
	common := ""
	if names := top.CommonNames(); len(names) > 0 {
		common = names[0]
	}
	photos := s.gallery.Build(ctx, top.Similar(), top.Name, common)
	if len(photos) == 0 {
		return s.text(ctx, lang, KeyboardMain, msgNoSimilar)
	}
	// captions travel with the photos; the text message names the plant
	header := top.Name
	if common != "" {
		header += " (" + common + ")"
	}
	return Reply{Messages: []string{"📸 " + header}, Photos: photos, Keyboard: KeyboardMain}
}

func (s *Service) handleHealth(ctx context.Context, u Update, lang string) Reply {
	sess, err := s.sessions.Get(ctx, u.UserID)
	if err != nil {
		return s.text(ctx, lang, KeyboardMain, msgStorageError)
	}
	if sess.LastImage == "" {
		return s.text(ctx, lang, KeyboardMain, msgSendPhotoFirst)
	}
	h, err := s.plantID.AssessHealth(ctx, s.request(ctx, u.UserID, sess.LastImage, lang))
	if err != nil {
		s.logger.Error("health assessment for %s failed: %v", u.UserID, err)
		return s.text(ctx, lang, KeyboardMain, msgRecognitionError)
	}

	flower := sess.LastPlant
	if flower == "" {
		flower = s.t(ctx, defaultFlower, lang)
	}
	diseases := report.LikelyDiseases(h)
	treatment := ""
	if s.advisor != nil && len(diseases) > 0 {
		treatment, err = s.advisor.Advise(ctx, flower, diseases, lang)
		if err != nil {
			s.logger.Warn("treatment advice for %s unavailable: %v", u.UserID, err)
			treatment = ""
		}
	}

	text, err := s.reports.HealthReport(ctx, h, lang, treatment)
	if err != nil {
		var herr *report.HealthReportError
		if stderrors.As(err, &herr) {
			return Reply{Messages: []string{herr.Message}, Keyboard: KeyboardMain}
		}
		return s.text(ctx, lang, KeyboardMain, msgNoInfo)
	}

	data := eventbus.HealthAssessedData{Plant: flower, Diseases: diseases}
	if res := h.Result; res != nil {
		data.IsPlant = res.IsPlant != nil && res.IsPlant.Binary
		data.Healthy = res.IsHealthy == nil || res.IsHealthy.Binary
	}
	s.emit(eventbus.EventHealthAssessed, u.UserID, data)
	return Reply{Messages: []string{text}, Keyboard: KeyboardMain}
}

func (s *Service) handleLocation(ctx context.Context, u Update, lang string) Reply {
	if u.Latitude == nil || u.Longitude == nil {
		return s.text(ctx, lang, KeyboardMain, msgSendLocation)
	}
	lat, lon := *u.Latitude, *u.Longitude
	if math.IsNaN(lat) || math.IsNaN(lon) || math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return s.text(ctx, lang, KeyboardMain, msgBadLocation)
	}
	if err := s.sessions.SetGeoposition(ctx, u.UserID, session.Geoposition{Longitude: lon, Latitude: lat}); err != nil {
		return s.text(ctx, lang, KeyboardMain, msgStorageError)
	}
	s.emit(eventbus.EventLocationShared, u.UserID, eventbus.LocationSharedData{Longitude: lon, Latitude: lat})
	return s.text(ctx, lang, KeyboardMain, msgLocationSaved)
}

// request builds a plant.id request carrying the stored geoposition.
func (s *Service) request(ctx context.Context, userID, imageBase64, lang string) plantid.Request {
	req := plantid.Request{ImageBase64: imageBase64, Language: lang}
	sess, err := s.sessions.Get(ctx, userID)
	if err == nil && sess.Geoposition != nil {
		lat, lon := sess.Geoposition.Latitude, sess.Geoposition.Longitude
		req.Latitude, req.Longitude = &lat, &lon
	}
	return req
}
